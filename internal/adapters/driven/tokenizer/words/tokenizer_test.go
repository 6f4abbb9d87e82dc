package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	tk := New()

	ids, err := tk.Encode("  ders  kaydı\n ders ")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, ids)

	text, err := tk.Decode(ids[1:])
	require.NoError(t, err)
	assert.Equal(t, "kaydı ders", text)
}

func TestDecode_UnknownID(t *testing.T) {
	_, err := New().Decode([]int{5})
	assert.Error(t, err)
}

func TestEncode_Empty(t *testing.T) {
	ids, err := New().Encode(" \n ")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, "words", New().Name())
}

func TestScope_IsolatesVocabulary(t *testing.T) {
	tk := New()
	_, err := tk.Encode("ders kaydı")
	require.NoError(t, err)

	scoped := tk.Scope()
	ids, err := scoped.Encode("staj")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ids)

	text, err := scoped.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "staj", text)
	assert.Equal(t, 2, tk.Len())
	assert.Equal(t, 1, scoped.(*Tokenizer).Len())
}
