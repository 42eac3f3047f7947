package model

type Tab string

const (
	TabNotes Tab = "notes"
	TabJokes Tab = "jokes"
)

func (t Tab) Valid() bool {
	return t == TabNotes || t == TabJokes
}
