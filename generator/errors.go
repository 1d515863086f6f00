package generator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingFile is reported when a run starts without an uploaded table.
	ErrMissingFile = errors.New("特許データベースのファイルが指定されていません")
	// ErrMissingAPIKey is reported when a run starts without a credential.
	ErrMissingAPIKey = errors.New("Gemini APIキーが入力されていません")
	// ErrNoImage means the image endpoint answered without an image part.
	ErrNoImage = errors.New("画像が生成されませんでした")
	// ErrNoNarrative means image generation was requested without a
	// synthesized solution to draw from.
	ErrNoNarrative = errors.New("ソリューションが生成されていないため画像生成をスキップしました")
)

// LoadError wraps a failure to parse the uploaded spreadsheet.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("データの読み込みに失敗しました (%s): %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports that the table lacks the required abstract column.
type SchemaError struct {
	Column string
	Have   []string
}

func (e *SchemaError) Error() string {
	if len(e.Have) == 0 {
		return fmt.Sprintf("'%s'列が見つかりません", e.Column)
	}
	return fmt.Sprintf("'%s'列が見つかりません (検出列: %s)", e.Column, strings.Join(e.Have, ", "))
}

// RemoteCallError wraps the last failure of an exhausted retry loop.
type RemoteCallError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: 最大リトライ回数(%d回)に達しました: %v", e.Op, e.Attempts, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }
