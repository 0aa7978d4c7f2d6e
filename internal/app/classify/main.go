package classify

import (
	"time"

	"bitbucket.org/airenas/textcnn/internal/app/classify/tf"
	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	"bitbucket.org/airenas/textcnn/internal/pkg/metrics"
	"bitbucket.org/airenas/textcnn/internal/pkg/store"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var appName = "TextCNN Relation Classification Service"

var rootCmd = &cobra.Command{
	Use:   "classifyService",
	Short: appName,
	Long:  `HTTP server to classify relation feature lines with a trained CNN model`,
	RunE:  run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	rootCmd.PersistentFlags().StringP("modelDir", "m", "", "Directory with prepared dictionaries")
	cmdapp.Config.BindPFlag("modelDir", rootCmd.PersistentFlags().Lookup("modelDir"))
	cmdapp.Config.SetDefault("port", 8000)
	cmdapp.Config.SetDefault("tf.name", "textcnn")
	cmdapp.Config.SetDefault("tf.retry.maxElapsed", "30s")
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmdapp.Log.Info("Starting " + appName)

	data := &ServiceData{}
	if err := initMetrics(data); err != nil {
		return errors.Wrap(err, "Can't init metrics")
	}

	provider, err := store.NewLocalStore(cmdapp.Config.GetString("modelDir"))
	if err != nil {
		return errors.Wrap(err, "Cannot init data provider")
	}

	tfWrapper, err := tf.NewWrapper(cmdapp.Config.GetString("tf.url"), cmdapp.Config.GetString("tf.name"),
		cmdapp.Config.GetInt("tf.version"), cmdapp.Config.GetDuration("tf.retry.maxElapsed"))
	if err != nil {
		return errors.Wrap(err, "Cannot init tensorflow wrapper")
	}

	data.health = healthcheck.NewHandler()
	data.health.AddLivenessCheck("tensorflow", healthcheck.Async(tfWrapper.Healthy, 10*time.Second))

	data.classifier, err = NewClassifierImpl(provider, tfWrapper)
	if err != nil {
		return errors.Wrap(err, "Cannot init classifier")
	}

	data.Port = cmdapp.Config.GetInt("port")
	return StartWebServer(data)
}

func initMetrics(data *ServiceData) error {
	data.metrics.responseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "classify_service",
			Name:      "request_durations_seconds",
			Help:      "Request latency distributions.",
		}, nil)
	return metrics.Register(data.metrics.responseDur)
}
