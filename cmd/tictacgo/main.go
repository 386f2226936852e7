// Command tictacgo serves the web UI by default, or plays in the terminal
// with -play.
//
//	tictacgo -addr :8080
//	tictacgo -play -mode HvsAI -difficulty impossible
package main

import (
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/jharlan/tictacgo/internal/ai"
	"github.com/jharlan/tictacgo/internal/app"
	"github.com/jharlan/tictacgo/internal/cli"
	"github.com/jharlan/tictacgo/internal/web"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		play       = flag.Bool("play", false, "play in the terminal instead of serving HTTP")
		mode       = flag.String("mode", "HvsAI", "game mode: HvsH or HvsAI")
		difficulty = flag.String("difficulty", "impossible", "AI difficulty: easy, medium or impossible")
		seed       = flag.Int64("seed", 0, "AI random seed; 0 uses the clock")
	)
	flag.Parse()

	m, err := app.ParseMode(*mode)
	if err != nil {
		log.Fatalf("invalid -mode %q", *mode)
	}
	d, err := ai.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatalf("invalid -difficulty %q", *difficulty)
	}
	engine := ai.NewEngine()
	if *seed != 0 {
		engine = ai.NewEngineWithConfig(ai.DefaultConfig(), rand.New(rand.NewSource(*seed)))
	}

	if *play {
		session := cli.New(os.Stdin, os.Stdout, cli.Options{
			Mode:       m,
			Difficulty: d,
			Engine:     engine,
		})
		if err := session.Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	svc := app.NewServiceWith(engine, nil)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           web.NewServer(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
