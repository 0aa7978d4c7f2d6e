package mongo

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"bitbucket.org/airenas/textcnn/internal/pkg/cmdapp"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	store    = "textcnn"
	runTable = "runs"
)

//SessionProvider connects and provides session for mongo DB
type SessionProvider struct {
	client *mongo.Client
	URL    string
	m      sync.Mutex
}

//NewSessionProvider creates Mongo session provider
func NewSessionProvider(url string) (*SessionProvider, error) {
	if url == "" {
		return nil, errors.New("no Mongo url provided")
	}
	return &SessionProvider{URL: url}, nil
}

//Close disconnects from mongo
func (sp *SessionProvider) Close() {
	sp.m.Lock()
	defer sp.m.Unlock()
	if sp.client != nil {
		ctx, cancel := mongoContext()
		defer cancel()
		cmdapp.LogIf(sp.client.Disconnect(ctx))
		sp.client = nil
	}
}

//NewSession creates mongo session
func (sp *SessionProvider) NewSession() (mongo.Session, error) {
	sp.m.Lock()
	defer sp.m.Unlock()

	if sp.client == nil {
		cmdapp.Log.Info("Dial mongo: " + hidePass(sp.URL))
		ctx, cancel := mongoContext()
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(sp.URL))
		if err != nil {
			return nil, errors.Wrap(err, "can't dial to mongo")
		}
		if err = client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, errors.Wrap(err, "can't ping mongo")
		}
		sp.client = client
	}
	return sp.client.StartSession()
}

func mongoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func sanitize(s string) string {
	return strings.NewReplacer("$", "", "{", "", "}", "").Replace(s)
}

func hidePass(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		cmdapp.Log.Warn("Can't parse mongo url.")
		return ""
	}
	if u.User == nil {
		return u.String()
	}
	_, ps := u.User.Password()
	if ps {
		u.User = url.UserPassword(u.User.Username(), "----")
	}
	return u.String()
}
