package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/keyscribe/keyscribe/internal/file"
	"github.com/keyscribe/keyscribe/internal/processor"
	"github.com/keyscribe/keyscribe/internal/score"
)

// maxUpload bounds the size of a request body.
const maxUpload = 16 << 20

var serveFlags struct {
	addr string
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "address to listen on")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve refinement and arrangement over HTTP",
	Long: `Serves two endpoints that take a MIDI file as the request body and
return the processed MIDI file:

  POST /refine?profile=fast|balanced|accurate
  POST /arrange?style=block|arpeggio|alberti`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := &http.Server{
			Addr:              serveFlags.addr,
			Handler:           newRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		log.Info().Str("addr", serveFlags.addr).Msg("listening")
		return srv.ListenAndServe()
	},
}

func newRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/refine", handleRefine).Methods("POST")
	router.HandleFunc("/arrange", handleArrange).Methods("POST")
	return cors.Default().Handler(router)
}

// readBody parses the request body as a MIDI file. On failure it writes the
// error response and returns nil.
func readBody(w http.ResponseWriter, r *http.Request) *score.Score {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("request body exceeds %s", humanize.IBytes(uint64(tooLarge.Limit))), http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, "could not read request body", http.StatusBadRequest)
		}
		return nil
	}
	s, err := file.ReadScore(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, score.ErrMalformed) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "not a MIDI file: "+err.Error(), http.StatusBadRequest)
		}
		return nil
	}
	return s
}

func writeScore(w http.ResponseWriter, s *score.Score) {
	var buf bytes.Buffer
	if err := file.WriteScore(&buf, s); err != nil {
		log.Error().Err(err).Msg("could not encode response")
		http.Error(w, "could not encode MIDI", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Write(buf.Bytes())
}

func handleRefine(w http.ResponseWriter, r *http.Request) {
	profile, err := processor.ParseProfile(r.URL.Query().Get("profile"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s := readBody(w, r)
	if s == nil {
		return
	}
	out, report, err := processor.Process(s, processor.DefaultConfig(profile), processor.Options{Logger: log})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("X-Run-Id", report.RunID.String())
	writeScore(w, out)
}

func handleArrange(w http.ResponseWriter, r *http.Request) {
	style, err := processor.ParseStyle(r.URL.Query().Get("style"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s := readBody(w, r)
	if s == nil {
		return
	}
	config := processor.DefaultConfig(processor.ProfileBalanced)
	config.Arrange.Style = style
	writeScore(w, processor.Arrange(s, s.BPM, config.Arrange, config.Pedal))
}
