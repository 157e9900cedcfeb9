package domain

// Student links an external platform account to a student record.
// PlatformID is zero while the record is unbound.
type Student struct {
	StudentID  int64
	Name       string
	PlatformID int64
}

type Grade struct {
	StudentID   int64
	StudentName string
	ExamName    string
	Score       int
}
