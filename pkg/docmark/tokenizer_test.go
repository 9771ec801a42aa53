package docmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Instruction
		wantErr bool
	}{
		{"variable", "Val_1", Instruction{Kind: KindVariable, Key: "Val_1"}, false},
		{"variable trimmed", "  Val_1 \t", Instruction{Kind: KindVariable, Key: "Val_1"}, false},
		{"inner spaces kept", " change me ", Instruction{Kind: KindVariable, Key: "change me"}, false},
		{"repeat", "repeat_3", Instruction{Kind: KindRepeatStart, Key: "repeat_3", Count: 3}, false},
		{"repeat zero", " repeat_0 ", Instruction{Kind: KindRepeatStart, Key: "repeat_0", Count: 0}, false},
		{"repeat large", "repeat_120", Instruction{Kind: KindRepeatStart, Key: "repeat_120", Count: 120}, false},
		{"end", "end", Instruction{Kind: KindRepeatEnd, Key: "end"}, false},
		{"end with suffix", "end_repeat", Instruction{Kind: KindRepeatEnd, Key: "end_repeat"}, false},
		{"end prefix only", "endorsement", Instruction{Kind: KindRepeatEnd, Key: "endorsement"}, false},
		{"empty", "", Instruction{Kind: KindUnrecognized}, false},
		{"blank", " \t\n", Instruction{Kind: KindUnrecognized}, false},
		{"repeat missing count", "repeat_", Instruction{}, true},
		{"repeat non numeric", "repeat_abc", Instruction{}, true},
		{"repeat negative", "repeat_-1", Instruction{}, true},
		{"repeat signed", "repeat_+2", Instruction{}, true},
		{"repeat trailing text", "repeat_2x", Instruction{}, true},
		{"repeat overflow", "repeat_99999999999999999999999", Instruction{}, true},
		{"prefix must lead", "my_repeat_3", Instruction{Kind: KindVariable, Key: "my_repeat_3"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsTemplateSyntaxError(err))
				assert.ErrorIs(t, err, errBadRepeatCount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyRepeatLimit(t *testing.T) {
	got, err := Classify("repeat_1000")
	require.NoError(t, err)
	assert.Equal(t, MaxRepeatCount, got.Count)

	_, err = Classify("repeat_1001")
	require.Error(t, err)
	assert.True(t, IsTemplateSyntaxError(err))
	assert.ErrorIs(t, err, errRepeatCountTooLarge)

	_, err = Classify("repeat_1000000000")
	assert.ErrorIs(t, err, errRepeatCountTooLarge)
}

func TestClassifySpan(t *testing.T) {
	tests := []struct {
		text string
		want Instruction
	}{
		{" Val_1 ", Instruction{Kind: KindVariable, Key: "Val_1"}},
		{"end_date", Instruction{Kind: KindVariable, Key: "end_date"}},
		{"repeat_x", Instruction{Kind: KindVariable, Key: "repeat_x"}},
		{"repeat_3", Instruction{Kind: KindVariable, Key: "repeat_3"}},
		{" \t", Instruction{Kind: KindUnrecognized}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySpan(tt.text), "text %q", tt.text)
	}
}

func TestClassifyCell(t *testing.T) {
	for _, text := range []string{"", "Val_1", "repeat_x", " end "} {
		got := ClassifyCell(text)
		assert.Equal(t, KindTableMarker, got.Kind, "text %q", text)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "variable", KindVariable.String())
	assert.Equal(t, "repeat-start", KindRepeatStart.String())
	assert.Equal(t, "repeat-end", KindRepeatEnd.String())
	assert.Equal(t, "table-marker", KindTableMarker.String())
	assert.Equal(t, "unrecognized", KindUnrecognized.String())

	b, err := KindVariable.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "variable", string(b))
}
