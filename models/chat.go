package models

import "time"

// ChatSender rappresenta il mittente di un messaggio di supporto
type ChatSender string

const (
	ChatSenderUser  ChatSender = "user"
	ChatSenderAdmin ChatSender = "admin"
)

// ChatMessage rappresenta un messaggio della chat di supporto. La lista è
// append-only e sincronizzata via socket, con inserimento ottimistico locale
// al momento dell'invio.
type ChatMessage struct {
	ID        string     `json:"id"`
	Room      string     `json:"room"`
	Sender    ChatSender `json:"sender"`
	Message   string     `json:"message"`
	Image     string     `json:"image,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Pending   bool       `json:"-"` // true per i messaggi ottimistici non ancora confermati
}

// Eventi del socket di chat
const (
	ChatEventJoinRoom       = "joinRoom"
	ChatEventLeaveRoom      = "leaveRoom"
	ChatEventSendMessage    = "sendMessage"
	ChatEventReceiveMessage = "receiveMessage"
)

// ChatFrame rappresenta il framing JSON degli eventi sul socket di chat
type ChatFrame struct {
	Event   string       `json:"event"`
	Room    string       `json:"room,omitempty"`
	Payload *ChatMessage `json:"payload,omitempty"`
}
