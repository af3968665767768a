package routes

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_PathParameters(t *testing.T) {
	u, err := URL(GetUserByID, map[string]string{"userId": "123e4567-e89b-12d3-a456-426614174000"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/users/123e4567-e89b-12d3-a456-426614174000", u)
}

func TestURL_QueryValues(t *testing.T) {
	q := url.Values{}
	q.Set("pageNumber", "2")
	q.Set("pageSize", "10")

	u, err := URL(GetUsers, nil, q)
	require.NoError(t, err)
	assert.Equal(t, "/api/users?pageNumber=2&pageSize=10", u)
}

func TestURL_UnknownRoute(t *testing.T) {
	_, err := URL("NoSuchRoute", nil, nil)
	assert.Error(t, err)
}

func TestURL_MissingParameter(t *testing.T) {
	_, err := URL(GetUserByID, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing parameter "userId"`)
}

func TestPattern(t *testing.T) {
	p, ok := Pattern(GetUserByID)
	require.True(t, ok)
	assert.Equal(t, "/api/users/:userId", p)

	_, ok = Pattern("NoSuchRoute")
	assert.False(t, ok)
}
