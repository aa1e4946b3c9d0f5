package models

// Notification is a composed email ready for the relay.
type Notification struct {
	FromName    string
	FromAddress string
	To          string
	ReplyTo     string
	Subject     string
	Text        string
	HTML        string
}
