package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// Run opens the gateway connection and blocks until the process is
// interrupted. Command registration and startup correction happen in the
// Ready handler.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	sig := <-sc
	log.Printf("Received %v, stopping.", sig)
	return nil
}
