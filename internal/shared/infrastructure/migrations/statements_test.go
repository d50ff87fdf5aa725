package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatements(t *testing.T) {
	got := statements(`-- header
CREATE TABLE a (id INTEGER);

-- comment only
;
CREATE INDEX idx ON a(id);
`)
	assert.Equal(t, []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX idx ON a(id)"}, got)
}
