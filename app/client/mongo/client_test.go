package mongo

import (
	"context"
	"testing"
	"time"

	"casebot/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions_NoUserKeepsURIAuth(t *testing.T) {
	opts := clientOptions(config.Mongo{URL: "mongodb://db.internal:27017", Database: "casebot"})

	require.NoError(t, opts.Validate())
	assert.Nil(t, opts.Auth)
	assert.Equal(t, []string{"db.internal:27017"}, opts.Hosts)
}

func TestClientOptions_UserSetsCredential(t *testing.T) {
	opts := clientOptions(config.Mongo{
		URL:        "mongodb://db.internal:27017",
		User:       "casebot",
		Pass:       "secret",
		AuthSource: "admin",
		Database:   "casebot",
	})

	require.NotNil(t, opts.Auth)
	assert.Equal(t, "casebot", opts.Auth.Username)
	assert.Equal(t, "secret", opts.Auth.Password)
	assert.Equal(t, "admin", opts.Auth.AuthSource)
	assert.Equal(t, []string{"db.internal:27017"}, opts.Hosts)
}

func TestConnect_SelectsDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// The driver dials lazily, so no server is needed here.
	c, err := Connect(ctx, config.Mongo{URL: "mongodb://localhost:1", Database: "analytics_test"})
	require.NoError(t, err)

	assert.Equal(t, "analytics_test", c.db.Name())
	assert.NoError(t, c.Shutdown())
}

func TestConnect_BadURI(t *testing.T) {
	_, err := Connect(context.Background(), config.Mongo{URL: "postgres://nope", Database: "casebot"})
	assert.Error(t, err)
}
