package bigquery

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowPage(total int, values ...string) map[string]any {
	rows := make([]map[string]any, 0, len(values))
	for _, v := range values {
		rows = append(rows, map[string]any{"f": []map[string]string{{"v": v}}})
	}
	return map[string]any{"totalRows": fmt.Sprint(total), "rows": rows}
}

func TestReadTableRowsPaging(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	ft.respond(rowPage(3, "a", "b"))
	ft.respond(rowPage(3, "c"))

	rows, err := c.ReadTableRows(context.Background(), ref, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, rows)

	// The second request resumes where the first left off.
	assert.Equal(t, "0", ft.calls[0].Query.Get("startIndex"))
	assert.Equal(t, "2", ft.calls[1].Query.Get("startIndex"))
}

func TestReadTableRowsMaxRows(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	ft.respond(rowPage(100, "a", "b"))

	rows, err := c.ReadTableRows(context.Background(), ref, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Len(t, ft.calls, 1)
	assert.Equal(t, "2", ft.calls[0].Query.Get("maxResults"))
}

func TestReadTableRowsPageSizeCap(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	ft.respond(rowPage(1, "a"))

	_, err := c.ReadTableRows(context.Background(), ref, 0)
	require.NoError(t, err)
	assert.Equal(t, "10000", ft.calls[0].Query.Get("maxResults"))
}

func TestReadTableRowsUnderDelivery(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	// The server claims three rows but stops delivering after one.
	ft.respond(rowPage(3, "a"))
	ft.respond(rowPage(3))

	_, err := c.ReadTableRows(context.Background(), ref, 0)
	var iface *InterfaceError
	require.ErrorAs(t, err, &iface)
	assert.Contains(t, iface.Message, "not enough rows returned by server")
	assert.Contains(t, iface.Message, "table 'proj:d.t'")
}

func TestReadTableRowsEmptyTable(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	ft.respond(rowPage(0))

	rows, err := c.ReadTableRows(context.Background(), ref, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadSchemaAndRows(t *testing.T) {
	c, ft := newFakeClient(t)
	ref := TableReference{ProjectID: "proj", DatasetID: "d", TableID: "t"}
	ft.respond(&Table{
		TableReference: &ref,
		Schema:         &TableSchema{Fields: []*TableFieldSchema{{Name: "x", Type: "STRING"}}},
	})
	ft.respond(rowPage(1, "a"))

	fields, rows, err := c.ReadSchemaAndRows(context.Background(), ref, 0)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "x", fields[0].Name)
	assert.Equal(t, [][]string{{"a"}}, rows)
}
