package basesvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type level string

type defaultsModel struct {
	Name     string `bson:"name"`
	City     string `bson:"city" default:"Mumbai"`
	Priority level  `bson:"priority,omitempty" default:"Normal"`
	Active   bool   `bson:"active" default:"true"`
	Count    int64  `bson:"count" default:"3"`
	Port     int    `bson:"port" default:"8080"`
	Ignored  string `bson:"-" default:"x"`
}

func TestApplyInsertDefaultsToModel(t *testing.T) {
	m := defaultsModel{Name: "Tech Expo", City: "Delhi"}
	applyInsertDefaultsToModel(&m)

	assert.Equal(t, "Delhi", m.City, "non-zero field is kept")
	assert.Equal(t, level("Normal"), m.Priority)
	assert.True(t, m.Active)
	assert.Equal(t, int64(3), m.Count)
	assert.Equal(t, 8080, m.Port)

	// not a pointer: no panic, nothing happens
	applyInsertDefaultsToModel(m)
}

func TestToUpdateData(t *testing.T) {
	u, err := ToUpdateData(bson.M{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", u.Set["name"])

	type partial struct {
		Email string `bson:"email,omitempty"`
		City  string `bson:"city,omitempty"`
	}
	u, err = ToUpdateData(partial{Email: "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"email": "a@b.c"}, u.Set)

	orig := &UpdateData{Unset: map[string]interface{}{"cardBack": ""}}
	u, err = ToUpdateData(orig)
	require.NoError(t, err)
	assert.Same(t, orig, u)
}
