package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestDecodesStringCoordinates(t *testing.T) {
	body := `{"email":"a@b.c","password":"longenough","lat":"52.52","lng":"13.40"}`

	var req RegisterRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.True(t, req.Lat.Set)
	assert.True(t, req.Lng.Set)
	assert.Equal(t, 52.52, req.Lat.Value)
	assert.Equal(t, 13.40, req.Lng.Value)
}

func TestRegisterRequestTreatsEmptyStringCoordinatesAsAbsent(t *testing.T) {
	body := `{"email":"a@b.c","password":"longenough","lat":"","lng":""}`

	var req RegisterRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.False(t, req.Lat.Set)
	assert.False(t, req.Lng.Set)
	assert.Nil(t, req.Lat.Ptr())
	assert.Nil(t, req.Lng.Ptr())
}

func TestRegisterRequestDecodesNumericCoordinates(t *testing.T) {
	body := `{"email":"a@b.c","password":"longenough","lat":52.52,"lng":13.40}`

	var req RegisterRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.True(t, req.Lat.Set)
	assert.Equal(t, 52.52, req.Lat.Value)
	assert.Equal(t, 13.40, req.Lng.Value)
}

func TestCoordinateRejectsNonNumericString(t *testing.T) {
	var c Coordinate
	err := json.Unmarshal([]byte(`"north of town"`), &c)

	assert.Error(t, err)
	assert.False(t, c.Set)
}

func TestCoordinateTreatsNullAsAbsent(t *testing.T) {
	var req RegisterRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":"a@b.c","password":"longenough","lat":null,"lng":null}`), &req))

	assert.False(t, req.Lat.Set)
	assert.False(t, req.Lng.Set)
}

func TestUpdateProfileRequestDecodesStringCoordinatesAndPassword(t *testing.T) {
	body := `{"email":"a@b.c","password":"newsecret1","latitude":"40.7128","longitude":"-74.0060"}`

	var req UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.NotNil(t, req.Password)
	assert.Equal(t, "newsecret1", *req.Password)
	assert.True(t, req.Latitude.Set)
	assert.True(t, req.Longitude.Set)
	assert.Equal(t, 40.7128, req.Latitude.Value)
	assert.Equal(t, -74.0060, req.Longitude.Value)
}
