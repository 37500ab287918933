package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, EscapeLike(`c:\dir`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%bat%", ContainsPattern("bat"))
	assert.Equal(t, `%50\% off%`, ContainsPattern("50% off"))
}

func TestSubsequencePattern(t *testing.T) {
	assert.Equal(t, "%b%a%t%", SubsequencePattern("bat"))
	assert.Equal(t, `%a%\_%`, SubsequencePattern("a_"))
	assert.Equal(t, "%ç%i%", SubsequencePattern("çi"))
	assert.Equal(t, "%", SubsequencePattern(""))
}
