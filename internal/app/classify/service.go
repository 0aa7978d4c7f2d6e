package classify

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/airenas/textcnn/internal/app/classify/api"
	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//Classifier invokes TF to retrieve relation categories
type Classifier interface {
	Classify(lines []string) ([]*api.Prediction, error)
}

// ServiceData keeps data required for service work
type ServiceData struct {
	Port       int
	health     healthcheck.Handler
	classifier Classifier
	metrics    struct {
		responseDur *prometheus.HistogramVec
	}
}

//StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	portStr := strconv.Itoa(data.Port)
	w := &http.Server{
		Addr:        ":" + portStr,
		IdleTimeout: 2 * time.Minute,
		Handler:     NewRouter(data),
	}
	if err := gracehttp.Serve(w); err != nil {
		return errors.Wrap(err, "Can't start HTTP listener at port "+portStr)
	}
	return nil
}

//NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter()
	var h http.Handler = &classifyHandler{data: data}
	if data.metrics.responseDur != nil {
		h = promhttp.InstrumentHandlerDuration(data.metrics.responseDur, h)
	}
	router.Methods("POST").Path("/classify").Handler(h)
	router.Methods("POST").Path("/classify/").Handler(h)
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	return router
}

type classifyHandler struct {
	data *ServiceData
}

func (h *classifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Request from %s", r.Host)

	decoder := json.NewDecoder(r.Body)
	var input Input
	err := decoder.Decode(&input)
	if err != nil {
		http.Error(w, "Cannot decode input", http.StatusBadRequest)
		cmdapp.Log.Error("Cannot decode input: " + err.Error())
		return
	}
	lines, single := inputLines(&input)
	if len(lines) == 0 {
		http.Error(w, "No features", http.StatusBadRequest)
		cmdapp.Log.Error("No features")
		return
	}

	prs, err := h.data.classifier.Classify(lines)
	if err != nil {
		http.Error(w, "Cannot classify", http.StatusInternalServerError)
		cmdapp.Log.Error("Cannot classify: " + err.Error())
		return
	}
	if len(prs) != len(lines) {
		http.Error(w, "Cannot classify", http.StatusInternalServerError)
		cmdapp.Log.Errorf("Expected %d predictions, got %d", len(lines), len(prs))
		return
	}

	var result interface{}
	if single {
		result = toResult(prs[0])
	} else {
		lr := ListOutput{Results: make([]Result, len(prs))}
		for i, p := range prs {
			lr.Results[i] = toResult(p)
		}
		result = lr
	}

	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err = encoder.Encode(result)
	if err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
}

func inputLines(in *Input) ([]string, bool) {
	if strings.TrimSpace(in.Features) != "" {
		return []string{in.Features}, true
	}
	for _, l := range in.FeaturesList {
		if strings.TrimSpace(l) == "" {
			return nil, false
		}
	}
	return in.FeaturesList, false
}

func toResult(p *api.Prediction) Result {
	return Result{Label: p.Label, Inverted: p.Inverted, Scores: p.Scores}
}
