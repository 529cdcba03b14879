package chat

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"binary-options-terminal/backend"
	"binary-options-terminal/models"
)

// Widget è il pannello chat di supporto: un'unica connessione socket per
// processo che entra nella stanza dell'utente. I messaggi in arrivo si
// accodano alla lista e incrementano il contatore non letti finché il
// pannello resta chiuso.
type Widget struct {
	socketURL string
	client    *backend.Client
	room      string

	mu       sync.Mutex
	conn     *websocket.Conn
	messages []models.ChatMessage
	unread   int
	open     bool
	done     chan struct{}
}

// NewWidget crea il widget chat per la stanza dell'utente
func NewWidget(socketURL string, client *backend.Client, userID string) *Widget {
	return &Widget{
		socketURL: socketURL,
		client:    client,
		room:      userID,
		done:      make(chan struct{}),
	}
}

// Connect apre il socket, entra nella stanza e avvia la lettura. Blocca solo
// per la fase di handshake; la lettura prosegue in una goroutine fino alla
// cancellazione del contesto.
func (w *Widget) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.socketURL, nil)
	if err != nil {
		return fmt.Errorf("errore connessione chat: %w", err)
	}

	join := models.ChatFrame{Event: models.ChatEventJoinRoom, Room: w.room}
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return fmt.Errorf("errore ingresso stanza %s: %w", w.room, err)
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()

	log.Printf("💬 Chat connessa, stanza %s", w.room)

	go func() {
		<-ctx.Done()
		w.mu.Lock()
		c := w.conn
		w.mu.Unlock()
		if c != nil {
			_ = c.WriteJSON(models.ChatFrame{Event: models.ChatEventLeaveRoom, Room: w.room})
			c.Close()
		}
	}()

	go w.readLoop(ctx, conn)
	return nil
}

// readLoop consuma i frame in arrivo fino alla chiusura del socket
func (w *Widget) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer close(w.done)

	for {
		var frame models.ChatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() == nil {
				log.Printf("Errore lettura chat: %v", err)
			}
			return
		}
		if frame.Event != models.ChatEventReceiveMessage || frame.Payload == nil {
			continue
		}
		w.receive(*frame.Payload)
	}
}

// receive accoda un messaggio in arrivo, risolvendo l'eventuale copia
// ottimistica e aggiornando il contatore non letti
func (w *Widget) receive(msg models.ChatMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Un echo di un nostro messaggio ottimistico conferma la copia locale
	// invece di duplicarla
	if msg.Sender == models.ChatSenderUser {
		for i := range w.messages {
			if w.messages[i].Pending && w.messages[i].ID == msg.ID {
				w.messages[i] = msg
				return
			}
		}
	}

	w.messages = append(w.messages, msg)
	if msg.Sender == models.ChatSenderAdmin && !w.open {
		w.unread++
	}
}

// Done segnala la terminazione del loop di lettura
func (w *Widget) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

// Send invia un messaggio con inserimento ottimistico locale: il messaggio
// appare subito nella lista con il flag Pending e viene riconciliato quando
// il server lo rimanda indietro
func (w *Widget) Send(text string) error {
	msg := models.ChatMessage{
		ID:        uuid.New().String(),
		Room:      w.room,
		Sender:    models.ChatSenderUser,
		Message:   text,
		Timestamp: time.Now(),
		Pending:   true,
	}

	w.mu.Lock()
	conn := w.conn
	if conn == nil {
		w.mu.Unlock()
		return fmt.Errorf("chat non connessa")
	}
	w.messages = append(w.messages, msg)
	w.mu.Unlock()

	frame := models.ChatFrame{Event: models.ChatEventSendMessage, Room: w.room, Payload: &msg}
	if err := conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("errore invio messaggio: %w", err)
	}
	return nil
}

// OpenPanel apre il pannello: azzera il contatore non letti e marca i
// messaggi come letti sul backend (una sola chiamata per apertura)
func (w *Widget) OpenPanel(ctx context.Context) error {
	w.mu.Lock()
	w.open = true
	w.unread = 0
	w.mu.Unlock()

	if err := w.client.MarkMessagesRead(ctx); err != nil {
		return fmt.Errorf("errore mark-read: %w", err)
	}
	return nil
}

// ClosePanel chiude il pannello: i messaggi successivi tornano a contare
// come non letti
func (w *Widget) ClosePanel() {
	w.mu.Lock()
	w.open = false
	w.mu.Unlock()
}

// LoadHistory carica lo storico messaggi dal backend sostituendo la lista
func (w *Widget) LoadHistory(ctx context.Context) error {
	history, err := w.client.FetchMessages(ctx)
	if err != nil {
		return fmt.Errorf("errore caricamento storico chat: %w", err)
	}
	w.mu.Lock()
	w.messages = history
	w.mu.Unlock()
	return nil
}

// Messages restituisce una copia della lista messaggi corrente
func (w *Widget) Messages() []models.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.ChatMessage, len(w.messages))
	copy(out, w.messages)
	return out
}

// Unread restituisce il numero di messaggi non letti
func (w *Widget) Unread() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.unread
}
