package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"DrawSync/internal/canvas"
	"DrawSync/internal/hub"
	"DrawSync/internal/netutil"
	"DrawSync/internal/server"
	"DrawSync/internal/store"
)

func main() {
	addr := flag.String("addr", "localhost:8766", "address to listen on")
	dbPath := flag.String("db", "drawsync.sqlite3", "path to the sqlite database")
	exportDir := flag.String("exports", ".", "directory for exported canvas PDFs")
	announce := flag.Bool("mdns", false, "advertise the service on the local network over mDNS")
	flag.Parse()

	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	srv := server.New(*addr, *exportDir, canvas.NewRegistry(), hub.New(), st)

	port := listenPort(*addr)
	if *announce && port > 0 {
		mdnsServer, err := netutil.Advertise(port)
		if err != nil {
			log.Printf("mDNS advertisement failed: %v", err)
		} else {
			defer mdnsServer.Shutdown()
			log.Printf("Advertising service over mDNS on port %d", port)
		}
	}

	if ip, err := netutil.OutgoingIP(); err == nil && port > 0 {
		log.Printf("Share address: ws://%s:%d/ws", ip, port)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-exit
	log.Printf("Caught %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}

func listenPort(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}
