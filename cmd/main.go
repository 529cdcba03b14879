package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"binary-options-terminal/account"
	"binary-options-terminal/backend"
	"binary-options-terminal/book"
	"binary-options-terminal/chat"
	"binary-options-terminal/config"
	"binary-options-terminal/database"
	"binary-options-terminal/exchange"
	"binary-options-terminal/marketdata"
	"binary-options-terminal/models"
	"binary-options-terminal/repositories"
	"binary-options-terminal/session"
	"binary-options-terminal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Carica configurazioni
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Errore nel caricamento della configurazione:", err)
	}
	log.Println("Configurazione caricata con successo!")

	// Inizializza database locale con migrazioni e dati iniziali
	log.Println("Inizializzando database locale...")
	db, err := database.InitializeDatabaseWithData(&database.Config{FilePath: cfg.Database.FilePath})
	if err != nil {
		log.Fatalf("ERRORE CRITICO: Impossibile inizializzare database: %v", err)
	}
	defer database.Close(db)

	repoManager := repositories.NewRepositoryManager(db)

	// Sessione unica di processo, costruita una volta all'avvio
	sess, err := session.NewManager(ctx, repoManager.Session())
	if err != nil {
		log.Fatalf("ERRORE CRITICO: Impossibile inizializzare la sessione: %v", err)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, sess)

	if sess.Authenticated() {
		if profile, err := client.FetchProfile(ctx); err != nil {
			log.Printf("Errore caricamento profilo: %v", err)
		} else {
			log.Printf("✅ Sessione ripresa per %s (saldo %s)", profile.Email, profile.Balance)
		}
	} else {
		log.Println("⚠️  Nessuna sessione attiva: effettuare il login")
	}

	// Sincronizzatore dati di mercato
	ex := exchange.NewBinanceExchange(cfg.Exchange.RESTBaseURL)
	streamer := book.NewBinanceStreamer(cfg.Exchange.WSBaseURL)
	synchronizer := marketdata.NewSynchronizer(ex, streamer,
		cfg.Exchange.QuoteCurrency, cfg.Exchange.SnapshotLimit, cfg.Exchange.PollInterval)

	log.Println("Avvio sottoscrizione dati di mercato per btc 1m...")
	sub, err := synchronizer.Subscribe(ctx, "btc", models.Timeframe1m)
	if err != nil {
		log.Fatalf("ERRORE CRITICO: Impossibile sottoscrivere i dati di mercato: %v", err)
	}
	defer sub.Unsubscribe()

	// Viste account con paginazione lato client
	tradesView := account.NewTradesView(client, repoManager.Trade(), 10)
	fundingView := account.NewFundingView(client, repoManager.Funding(), 10)

	// Chat di supporto: una sola connessione socket per processo
	var widget *chat.Widget
	if sess.Authenticated() {
		widget = chat.NewWidget(cfg.Backend.SocketURL, client, sess.UserID())
		if err := widget.Connect(ctx); err != nil {
			log.Printf("Errore connessione chat: %v", err)
		} else if err := widget.LoadHistory(ctx); err != nil {
			log.Printf("Errore caricamento storico chat: %v", err)
		}
	}

	// Worker di sincronizzazione account
	workerManager := worker.NewWorkerManager()
	syncWorker := worker.NewAccountSyncWorker(client, tradesView, fundingView)
	if err := workerManager.RegisterWorker(&worker.WorkerConfig{
		Name:        syncWorker.GetName(),
		Schedule:    "*/30 * * * * *", // Ogni 30 secondi
		Worker:      syncWorker,
		Enabled:     sess.Authenticated(),
		Description: "Sincronizzazione profilo, operazioni, depositi e prelievi",
	}); err != nil {
		log.Printf("❌ Errore registrazione worker account-sync: %v", err)
	}
	workerManager.Start()
	defer workerManager.Stop()

	log.Println("🚀 Terminale avviato")

	select {
	case <-ctx.Done():
		log.Println("🛑 Segnale di arresto ricevuto, spegnimento pulito...")
	case <-sess.Unauthenticated():
		log.Println("🛑 Sessione non più valida, spegnimento pulito...")
	}
}
