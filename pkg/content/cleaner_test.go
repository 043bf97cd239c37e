package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_plainText(t *testing.T) {
	c := NewCleaner(0)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "Dólar fecha em alta", want: "Dólar fecha em alta"},
		{name: "tags removed", in: "<p>Ibovespa <b>sobe</b> 2%</p>", want: "Ibovespa sobe 2%"},
		{name: "adjacent blocks keep word boundary", in: "<p>primeiro</p><p>segundo</p>", want: "primeiro segundo"},
		{name: "entities decoded", in: "Lucros &amp; perdas &quot;recordes&quot; &#8211; 2024", want: `Lucros & perdas "recordes" – 2024`},
		{name: "named accents decoded", in: "infla&ccedil;&atilde;o", want: "inflação"},
		{name: "whitespace collapsed", in: "  a\n\n\tb   c d  ", want: "a b c d"},
		{name: "script content dropped", in: "texto<script>alert('x')</script> final", want: "texto final"},
		{name: "images dropped", in: `<img src="x.png" alt="foto">legenda`, want: "legenda"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.plainText(tt.in))
		})
	}
}

func TestCleaner_Clean(t *testing.T) {
	c := NewCleaner(50)

	t.Run("long enough", func(t *testing.T) {
		raw := "<p>" + strings.Repeat("ação ", 12) + "</p>"
		text, err := c.Clean(raw)
		require.NoError(t, err)
		assert.Equal(t, 59, utf8.RuneCountInString(text))
	})

	t.Run("exactly at the floor", func(t *testing.T) {
		raw := strings.Repeat("é", 50)
		_, err := c.Clean(raw)
		require.NoError(t, err)
	})

	t.Run("too short after cleaning", func(t *testing.T) {
		raw := "<div><p>  curto  </p>" + strings.Repeat("<br/>", 40) + "</div>"
		text, err := c.Clean(raw)
		require.ErrorIs(t, err, ErrTooShort)
		assert.Equal(t, "curto", text)
	})

	t.Run("runes not bytes", func(t *testing.T) {
		// 49 two-byte runes is 98 bytes but still below the floor
		_, err := c.Clean(strings.Repeat("ç", 49))
		require.ErrorIs(t, err, ErrTooShort)
	})
}

func TestNewCleaner_DefaultMinLength(t *testing.T) {
	c := NewCleaner(-1)
	_, err := c.Clean(strings.Repeat("a", DefaultMinLength-1))
	require.ErrorIs(t, err, ErrTooShort)
	_, err = c.Clean(strings.Repeat("a", DefaultMinLength))
	require.NoError(t, err)
}
