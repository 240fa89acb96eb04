package main

import (
	"fmt"
	"strings"

	"gomark/internal/markup"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeLabelInput
	ModeFileInput
	ModeConfirm
)

// Tool is what a drag on the board does while markup editing is on.
type Tool int

const (
	ToolConnection Tool = iota
	ToolCircle
	ToolSquare
	ToolTriangle
	ToolX
	ToolSelected
	ToolTerritory
	ToolLabel
	ToolEraser
	numTools
)

var toolNames = [numTools]string{
	"connection", "circle", "square", "triangle", "x", "selected",
	"territory", "label", "eraser",
}

func (t Tool) String() string {
	if t < 0 || t >= numTools {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

func parseTool(s string) (Tool, bool) {
	for t := ToolConnection; t < numTools; t++ {
		if toolNames[t] == strings.ToLower(s) {
			return t, true
		}
	}
	return ToolConnection, false
}

// shape is the symbol a symbol tool places.
func (t Tool) shape() (markup.Shape, bool) {
	switch t {
	case ToolCircle:
		return markup.ShapeCircle, true
	case ToolSquare:
		return markup.ShapeSquare, true
	case ToolTriangle:
		return markup.ShapeTriangle, true
	case ToolX:
		return markup.ShapeX, true
	case ToolSelected:
		return markup.ShapeSelected, true
	}
	return 0, false
}

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpSavePNG
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmNewGame
	ConfirmOverwriteFile
)

type ActionType int

const (
	ActionPlaceMarkup ActionType = iota
	ActionRemoveMarkup
	ActionEraseMarkup
)

func (a ActionType) String() string {
	switch a {
	case ActionPlaceMarkup:
		return "placement"
	case ActionRemoveMarkup:
		return "removal"
	case ActionEraseMarkup:
		return "erase"
	default:
		return "change"
	}
}

const (
	gameFileExt   = ".gomark"
	backupName    = "backup" + gameFileExt
	stateName     = "state.yaml"
	logName       = "gomark.log"
	defaultDirDot = ".gomark"
)
