package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

type row struct {
	Name    string
	Country string
	Total   float64
}

func TestWrite(t *testing.T) {
	columns := []Column[row]{
		{Header: "Name", Width: 30, Value: func(r row) any { return r.Name }},
		{Header: "Country", Value: func(r row) any { return r.Country }},
		{Header: "Total", Value: func(r row) any { return r.Total }},
	}
	rows := []row{
		{Name: "Acme", Country: "NP", Total: 138},
		{Name: "Globex", Country: "IN", Total: 12.5},
	}

	var buf bytes.Buffer
	if err := Write(&buf, "Clients", columns, rows); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("Clients")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	want := [][]string{
		{"Name", "Country", "Total"},
		{"Acme", "NP", "138"},
		{"Globex", "IN", "12.5"},
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %v", got)
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("cell[%d][%d] = %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write[row](&buf, "Empty", nil, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("no workbook written")
	}
}
