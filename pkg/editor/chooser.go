package editor

import "context"

// Chooser picks document names for [Editor.Save] and [Editor.Load].
// Returning "" means the user cancelled.
type Chooser interface {
	ChooseSaveName(ctx context.Context, current string) (string, error)
	ChooseLoadName(ctx context.Context) (string, error)
}

// StaticChooser always chooses Name.
type StaticChooser struct{ Name string }

func (c StaticChooser) ChooseSaveName(context.Context, string) (string, error) { return c.Name, nil }
func (c StaticChooser) ChooseLoadName(context.Context) (string, error)         { return c.Name, nil }
