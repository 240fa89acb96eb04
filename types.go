package main

import (
	"github.com/charmbracelet/bubbles/textinput"

	"gomark/internal/board"
	"gomark/internal/markup"
)

type model struct {
	session           *Session
	width             int
	height            int
	cursor            board.Point
	mode              Mode
	help              bool
	helpScroll        int
	keyboardDrag      bool
	input             textinput.Model
	fileList          []string
	selectedFileIndex int
	fileOp            FileOperation
	confirmAction     ConfirmAction
	pendingFile       string
	errorMessage      string
	successMessage    string
}

// Action is one undoable markup change. Data holds the applied results and
// Inverse the results that revert them, both for position Index.
type Action struct {
	Type    ActionType
	Index   int
	Data    []markup.Result
	Inverse []markup.Result
}
