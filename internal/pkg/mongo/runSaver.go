package mongo

import (
	"context"
	"time"

	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//RunData is a mirrored preparation run
type RunData struct {
	ID         string    `bson:"ID"`
	Dir        string    `bson:"dir"`
	MaxLen     int       `bson:"maxLen"`
	Vocabulary []string  `bson:"vocabulary"`
	Labels     []string  `bson:"labels"`
	Missing    int       `bson:"missing"`
	Created    time.Time `bson:"created"`
}

//RunSaver saves preparation runs to mongo db
type RunSaver struct {
	SessionProvider *SessionProvider
}

//NewRunSaver creates RunSaver instance
func NewRunSaver(sessionProvider *SessionProvider) (*RunSaver, error) {
	if sessionProvider == nil {
		return nil, errors.New("no session provider")
	}
	return &RunSaver{SessionProvider: sessionProvider}, nil
}

//Save upserts run data by ID
func (rs *RunSaver) Save(data *RunData) error {
	cmdapp.Log.Infof("Saving run %s to mongo", data.ID)
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := rs.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := session.Client().Database(store).Collection(runTable)
	_, err = c.ReplaceOne(ctx, bson.M{"ID": sanitize(data.ID)}, data, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "can't save run")
}
