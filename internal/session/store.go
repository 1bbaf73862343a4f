// Package session provides the database-backed session store and the
// helpers handlers use to establish and tear down an authenticated session.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sessionDoc is a document in the sessions collection. Values are encoded
// with the cookie codecs so the database never holds them in the clear.
type sessionDoc struct {
	ID       string    `bson:"_id"`
	Data     string    `bson:"data"`
	Modified time.Time `bson:"modified"`
	Expires  time.Time `bson:"expires"`
}

// MongoStore implements gorilla/sessions.Store on a MongoDB collection.
// The cookie carries only the signed session id; the values live in the
// database.
type MongoStore struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options
	coll    *mongo.Collection
}

// NewMongoStore builds a store over the sessions collection of db. maxAge
// is the session lifetime in seconds.
func NewMongoStore(db *mongo.Database, maxAge int, keyPairs ...[]byte) *MongoStore {
	store := &MongoStore{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
		},
		coll: db.Collection("sessions"),
	}
	store.MaxAge(maxAge)
	return store
}

// EnsureIndexes creates the TTL index that reaps expired sessions.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

// MaxAge sets the session lifetime on the options and all codecs.
func (s *MongoStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

// Get returns the request-cached session, loading it on first use.
func (s *MongoStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session identified by the request cookie, or starts a
// fresh one when the cookie is absent or stale.
func (s *MongoStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		return session, nil
	}
	if err := s.load(r.Context(), session); err != nil {
		session.ID = ""
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session to the database and refreshes the cookie. A
// negative MaxAge deletes both.
func (s *MongoStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.delete(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}
	if err := s.upsert(r.Context(), session); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *MongoStore) load(ctx context.Context, session *sessions.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": session.ID}).Decode(&doc)
	if err != nil {
		return err
	}
	if !doc.Expires.IsZero() && doc.Expires.Before(time.Now().UTC()) {
		return mongo.ErrNoDocuments
	}
	return securecookie.DecodeMulti(session.Name(), doc.Data, &session.Values, s.Codecs...)
}

func (s *MongoStore) upsert(ctx context.Context, session *sessions.Session) error {
	data, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	doc := sessionDoc{
		ID:       session.ID,
		Data:     data,
		Modified: now,
		Expires:  now.Add(time.Duration(session.Options.MaxAge) * time.Second),
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc,
		options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
