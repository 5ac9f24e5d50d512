package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_PlainTextAsIs(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"foo", "Lorem Ipsum", "I <3 U", "<3", "Lorem Ipsum\ndolor sit amet"} {
		f, err := Extract(p)
		require.NoError(t, err)
		require.Equal(t, p, f.Paragraph)
		require.Nil(t, f.VerseNumber)
	}
}

func TestExtract_Trims(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{" foo", "foo"},
		{"Lorem  Ipsum", "Lorem  Ipsum"},
		{"Lorem Ipsum ", "Lorem Ipsum"},
		{"I <3 U      ", "I <3 U"},
		{"\n<3\n", "<3"},
		{"Lorem Ipsum\ndolor sit amet\n", "Lorem Ipsum\ndolor sit amet"},
	}
	for _, c := range cases {
		f, err := Extract(c.in)
		require.NoError(t, err)
		require.Equal(t, c.want, f.Paragraph, "input %q", c.in)
		require.Nil(t, f.VerseNumber)
	}
}

func TestExtract_SeparatesVerseNumber(t *testing.T) {
	t.Parallel()

	markup := `<p class="verse" data-aid="128398677" id="p24"><span class="verse-number">24 </span>And straightway the father of the child cried out, and said with tears, Lord, I believe; help thou mine <a class="study-note-ref" href="#note24a"><sup class="marker">a</sup>unbelief</a>.</p>`
	f, err := Extract(markup)
	require.NoError(t, err)
	require.Equal(t, "And straightway the father of the child cried out, and said with tears, Lord, I believe; help thou mine unbelief.", f.Paragraph)
	require.NotNil(t, f.VerseNumber)
	require.Equal(t, "24", *f.VerseNumber)
	require.Equal(t, "128398677", f.AID)
	require.NotContains(t, f.Paragraph, "24")
}

func TestExtract_StripsSuperscripts(t *testing.T) {
	t.Parallel()

	f, err := Extract(`<p>Blessed are the <sup class="marker">b</sup>meek: for they shall inherit the <sup>c</sup>earth.</p>`)
	require.NoError(t, err)
	require.Equal(t, "Blessed are the meek: for they shall inherit the earth.", f.Paragraph)
	require.Nil(t, f.VerseNumber)
	require.Empty(t, f.AID)
}

func TestPlainText_Note(t *testing.T) {
	t.Parallel()

	got, err := PlainText("<p>My <b>note</b> &amp; thoughts</p>")
	require.NoError(t, err)
	require.Equal(t, "My note & thoughts", got)
}
