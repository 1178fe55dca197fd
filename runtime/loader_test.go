package runtime

import (
	"blog-bus/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt":     {Data: []byte("badword\r\nscam\n\n  badword  \n")},
		"censored/fr.txt":     {Data: []byte("arnaque\n")},
		"censored/README.md":  {Data: []byte("not a dictionary")},
		"censored/old/de.txt": {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(fsys).LoadAll("censored", "extra", "scam")
	req.NoError(err)

	req.Equal([]string{"en", "fr"}, data.Languages)
	req.Equal([]string{"badword", "scam", "arnaque", "extra"}, data.Words)
}

func TestCensoredLoader_Empty(t *testing.T) {
	fsys := fstest.MapFS{"censored/en.txt": {Data: []byte("\n\n")}}

	_, err := NewCensoredLoader(fsys).LoadAll("censored")
	require.ErrorIs(t, err, errors.ErrEmptyWords)
}

func TestDefaultCensoredLoader(t *testing.T) {
	req := require.New(t)
	data, err := DefaultCensoredLoader().LoadAll("censored")
	req.NoError(err)
	req.Contains(data.Words, "badword")
}
