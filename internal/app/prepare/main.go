package prepare

import (
	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	"bitbucket.org/airenas/textcnn/internal/pkg/mongo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var appName = "TextCNN Training Data Preparation"

var rootCmd = &cobra.Command{
	Use:   "prepareData <data directory>",
	Short: appName,
	Long: `Reads <data directory>/training-data.liblinear, builds vocabulary and label dictionaries,
pads sequences, aligns pre-trained word vectors and writes everything the trainer needs
back to the directory`,
	Args: dataDirArg,
	RunE: run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	setDefaults(cmdapp.Config)
	rootCmd.PersistentFlags().StringP("embeddings", "e", "", "Pre-trained word vectors file (word2vec text format)")
	cmdapp.Config.BindPFlag("embedding.path", rootCmd.PersistentFlags().Lookup("embeddings"))
	rootCmd.PersistentFlags().Uint64P("seed", "", 1337, "Seed for the random embedding fallback")
	cmdapp.Config.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	rootCmd.PersistentFlags().StringP("metrics", "", "", "Write run metrics to the file")
	cmdapp.Config.BindPFlag("metrics.file", rootCmd.PersistentFlags().Lookup("metrics"))
}

//Execute runs the preparation
func Execute() {
	cmdapp.Execute(rootCmd)
}

func dataDirArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("one required argument: <data directory>")
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmdapp.Log.Info("Starting " + appName)

	settings, err := readSettings(cmdapp.Config)
	if err != nil {
		return errors.Wrap(err, "wrong settings")
	}
	p, err := NewPipeline(settings)
	if err != nil {
		return errors.Wrap(err, "can't init pipeline")
	}
	if settings.MongoURL != "" {
		sp, err := mongo.NewSessionProvider(settings.MongoURL)
		if err != nil {
			return errors.Wrap(err, "can't init mongo")
		}
		defer sp.Close()
		rs, err := mongo.NewRunSaver(sp)
		if err != nil {
			return errors.Wrap(err, "can't init run saver")
		}
		p.WithRunSaver(rs)
	}
	_, err = p.Run(args[0])
	return err
}
