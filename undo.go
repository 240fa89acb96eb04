package main

import (
	"errors"

	"gomark/internal/command"
	"gomark/internal/markup"
)

func (s *Session) recordAction(change command.Change) {
	action := Action{
		Type:    actionTypeOf(change.Applied),
		Index:   change.Index,
		Data:    change.Applied,
		Inverse: change.Inverse,
	}
	s.undoStack = append(s.undoStack, action)
	s.redoStack = s.redoStack[:0]
}

func actionTypeOf(results []markup.Result) ActionType {
	if len(results) == 0 {
		return ActionPlaceMarkup
	}
	switch results[0].Op {
	case markup.OpRemove:
		return ActionRemoveMarkup
	case markup.OpErase:
		return ActionEraseMarkup
	default:
		return ActionPlaceMarkup
	}
}

// undo reverts the last markup change. It goes through the markup command,
// so it is refused outside markup editing mode and the action stays on the
// stack.
func (s *Session) undo() (Action, bool) {
	if len(s.undoStack) == 0 {
		return Action{}, false
	}

	lastIndex := len(s.undoStack) - 1
	action := s.undoStack[lastIndex]
	if !s.replay(action.Index, action.Inverse) {
		return action, false
	}
	s.undoStack = s.undoStack[:lastIndex]
	s.redoStack = append(s.redoStack, action)
	return action, true
}

func (s *Session) redo() (Action, bool) {
	if len(s.redoStack) == 0 {
		return Action{}, false
	}

	lastIndex := len(s.redoStack) - 1
	action := s.redoStack[lastIndex]
	if !s.replay(action.Index, action.Data) {
		return action, false
	}
	s.redoStack = s.redoStack[:lastIndex]
	s.undoStack = append(s.undoStack, action)
	return action, true
}

// replay executes results at position index. When the command refuses
// them the view goes back to the position it was showing.
func (s *Session) replay(index int, results []markup.Result) bool {
	shown := s.game.CurrentBoardPositionIndex()
	s.game.SetCurrentPosition(index)
	if _, err := s.command.Execute(results...); err != nil && !isSaveError(err) {
		s.game.SetCurrentPosition(shown)
		return false
	}
	return true
}

// dropActionsFrom forgets changes made to positions that no longer exist.
func (s *Session) dropActionsFrom(index int) {
	keep := func(stack []Action) []Action {
		out := stack[:0]
		for _, a := range stack {
			if a.Index < index {
				out = append(out, a)
			}
		}
		return out
	}
	s.undoStack = keep(s.undoStack)
	s.redoStack = keep(s.redoStack)
}

// isSaveError reports whether the command applied its change and only
// saving it failed.
func isSaveError(err error) bool {
	return errors.Is(err, command.ErrPersistence) || errors.Is(err, command.ErrBackup)
}
