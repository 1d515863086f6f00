package app

import (
	fyneapp "fyne.io/fyne/v2/app"

	"yashubustudio/ideagen/generator"
)

const fyneAppID = "yashubustudio.ideagen"

// Run loads the persisted configuration and starts the desktop UI.
func Run() error {
	cfg, err := generator.LoadConfig("")
	if err != nil {
		return err
	}

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, cfg, "")
	u.w.ShowAndRun()
	return nil
}
