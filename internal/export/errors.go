package export

import "fmt"

// Stage names the pipeline step an export failed in.
type Stage string

const (
	StageTarget   Stage = "target"
	StageMount    Stage = "mount"
	StageCapture  Stage = "capture"
	StageAssemble Stage = "assemble"
	StageSave     Stage = "save"
)

// UserMessage is shown to the user for any export failure.
const UserMessage = "PDF 생성 중 오류가 발생했습니다."

// Error is an export failure at a given stage.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
