package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/buzzer/constants"
	"github.com/jsphweid/buzzer/convert"
	"github.com/jsphweid/buzzer/model"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const maxUploadBytes = 16 << 20

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves conversions over HTTP",
	Long: `Serves conversions over HTTP. POST a MIDI file as the request body to
/convert and get the .buzzer.json record back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logrus.Infof("Listening on %v", serveAddr)
		return http.ListenAndServe(serveAddr, Router())
	},
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithField("request", w.Header().Get("X-Request-Id")).Debugf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("%v must be an integer", name)
	}
	return v, nil
}

func parseConvertParams(r *http.Request) (convert.Options, model.Config, error) {
	var opts convert.Options
	cfg := constants.DefaultConfig()

	params := []struct {
		name string
		dst  *int
	}{
		{"track", &opts.Track},
		{"choir_track", &opts.ChoirTrack},
		{"fill_track", &opts.FillTrack},
		{"prolonged_ms", &cfg.ProlongedPauseMs},
		{"max_rest_ms", &cfg.MaxRestMs},
	}
	for _, p := range params {
		v, err := intParam(r, p.name, *p.dst)
		if err != nil {
			return opts, cfg, err
		}
		*p.dst = v
	}
	if s := r.URL.Query().Get("no_trim"); s != "" {
		noTrim, err := strconv.ParseBool(s)
		if err != nil {
			return opts, cfg, errors.New("no_trim must be a boolean")
		}
		cfg.TrimLeadingRests = !noTrim
	}
	return opts, cfg, nil
}

func statusFor(err error) int {
	if convert.IsSkip(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func HandleConvert(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	w.Header().Set("X-Request-Id", id)
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.mid"
	}
	log := logrus.WithFields(logrus.Fields{"request": id, "file": name})

	opts, cfg, err := parseConvertParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, errors.Wrap(err, "reading request body"))
		return
	}

	out, err := convert.Bytes(name, body, opts, cfg)
	if err != nil {
		log.Warnf("Rejected: %v", err)
		writeError(w, statusFor(err), err)
		return
	}
	log.Infof("Converted: %d notes, %d events, track=%v", out.NumNotes(), len(out.Events), out.SelectedTrackName)
	writeJSON(w, http.StatusOK, out)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}

// Router wires the HTTP endpoints with permissive CORS so browser tools can
// upload files directly.
func Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/convert", HandleConvert).Methods("POST")
	router.HandleFunc("/healthz", HandleHealth).Methods("GET")
	return cors.Default().Handler(router)
}
