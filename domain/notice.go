package domain

import "time"

// Notice is a message shown to the viewer, e.g. after a failed action
type Notice struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(n Notice)
}

// NewNotice stamps msg with the current time
func NewNotice(msg string) Notice {
	return Notice{Message: msg, At: time.Now()}
}
