package ldap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGIDFromGroupName(t *testing.T) {
	gid, err := gidFromGroupName("rdf-1001")
	require.NoError(t, err)
	assert.Equal(t, uint(1001), gid)

	_, err = gidFromGroupName("1001")
	assert.Error(t, err)

	_, err = gidFromGroupName("rdf-lab")
	assert.Error(t, err)
}
