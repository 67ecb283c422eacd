package ui

// View represents different UI views
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewConfirmDelete
	ViewUploadPrompt
	ViewSearch
	ViewHelp
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	case ViewConfirmDelete:
		return "confirm"
	case ViewUploadPrompt:
		return "upload"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
