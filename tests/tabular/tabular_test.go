package tabular_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kevinnadar22/metar-verify/pkg/tabular"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want tabular.Table
	}{
		{
			name: "header and rows",
			text: "Sr,Element,Time\n1,Thunderstorm,0400\n2,Wind,0600\n",
			want: tabular.Table{
				Header: []string{"Sr", "Element", "Time"},
				Rows: [][]string{
					{"1", "Thunderstorm", "0400"},
					{"2", "Wind", "0600"},
				},
			},
		},
		{
			name: "skips blank lines",
			text: "\n\nSr,Element\n\n1,Wind\n\n",
			want: tabular.Table{
				Header: []string{"Sr", "Element"},
				Rows:   [][]string{{"1", "Wind"}},
			},
		},
		{
			name: "drops rows with mismatched width",
			text: "A,B,C\n1,2,3\n1,2\n1,2,3,4\n4,5,6\n",
			want: tabular.Table{
				Header: []string{"A", "B", "C"},
				Rows: [][]string{
					{"1", "2", "3"},
					{"4", "5", "6"},
				},
			},
		},
		{
			name: "windows line endings",
			text: "A,B\r\n1,2\r\n",
			want: tabular.Table{
				Header: []string{"A", "B"},
				Rows:   [][]string{{"1", "2"}},
			},
		},
		{
			name: "header only",
			text: "A,B,C\n",
			want: tabular.Table{
				Header: []string{"A", "B", "C"},
				Rows:   [][]string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tabular.Parse(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	got := tabular.Parse("")
	if !got.IsEmpty() {
		t.Errorf("Parse(\"\") = %+v, want empty table", got)
	}
}

func TestSerialize(t *testing.T) {
	table := tabular.Table{
		Header: []string{"Sr", "Element"},
		Rows:   [][]string{{"1", "Thunderstorm"}, {"2", "Wind"}},
	}

	want := "Sr,Element\n1,Thunderstorm\n2,Wind\n"
	if got := table.Serialize(); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeEmpty(t *testing.T) {
	var table tabular.Table
	if got := table.Serialize(); got != "" {
		t.Errorf("Serialize() = %q, want empty string", got)
	}
}

func TestRoundTrip(t *testing.T) {
	text := "Sr,Element,Time\n1,Thunderstorm,0400\n"
	if got := tabular.Parse(text).Serialize(); got != text {
		t.Errorf("round trip = %q, want %q", got, text)
	}
}

func TestColumn(t *testing.T) {
	table := tabular.Table{
		Header: []string{"Sr", "Element"},
		Rows:   [][]string{{"1", "Thunderstorm"}, {"2", "Wind"}},
	}

	want := []string{"Thunderstorm", "Wind"}
	if diff := cmp.Diff(want, table.Column(1)); diff != "" {
		t.Errorf("Column(1) mismatch (-want +got):\n%s", diff)
	}

	if got := table.Column(5); len(got) != 0 {
		t.Errorf("Column(5) = %v, want empty", got)
	}
}
