package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add   func(AddArgs) (Result, error)
	Done  func(DoneArgs) (Result, error)
	Check func() (Result, error)
	Level func(LevelArgs) (Result, error)
	Test  func(TestArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeCheck:
		if handlers.Check == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "check handler not configured"}
		}
		return handlers.Check()
	case TypeLevel:
		if handlers.Level == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "level handler not configured"}
		}
		return handlers.Level(*cmd.Level)
	case TypeTest:
		if handlers.Test == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "test handler not configured"}
		}
		return handlers.Test(*cmd.Test)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
