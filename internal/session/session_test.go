package session_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angrysky56/esaf-framework-sub001/internal/analysis"
	"github.com/angrysky56/esaf-framework-sub001/internal/dataset"
	"github.com/angrysky56/esaf-framework-sub001/internal/session"
)

func ingestFixture(t *testing.T, s *session.Session) (csvID, textID, jsonID string) {
	t.Helper()
	csvID = s.Ingest("sales.csv", dataset.TextContent("region,units\nnorth,10\nsouth,20"))
	textID = s.Ingest("notes", dataset.TextContent("just prose"))
	jsonID = s.Ingest("extra.json", dataset.BytesContent([]byte(`[3, 4]`)))
	return csvID, textID, jsonID
}

func TestIngestAndLookup(t *testing.T) {
	s := session.New()
	csvID, textID, jsonID := ingestFixture(t, s)

	items := s.Items()
	require.Len(t, items, 3)
	require.Equal(t, []string{csvID, textID, jsonID}, []string{items[0].ID, items[1].ID, items[2].ID})

	it, ok := s.Item(csvID)
	require.True(t, ok)
	require.Equal(t, dataset.KindCSV, it.Kind)

	_, ok = s.Item("missing")
	require.False(t, ok)

	texts := s.ItemsByKind(dataset.KindText)
	require.Len(t, texts, 1)
	require.Equal(t, textID, texts[0].ID)
}

func TestActiveDatasets(t *testing.T) {
	s := session.New()
	csvID, _, jsonID := ingestFixture(t, s)

	// csv and json join the active list, prose does not
	require.Equal(t, []string{csvID, jsonID}, s.ActiveDatasets())
}

func TestAllNumerical(t *testing.T) {
	s := session.New()
	ingestFixture(t, s)

	v := s.AllNumerical()
	require.Equal(t, []float64{10, 20, 3, 4}, v.Values)
	require.Equal(t, []string{"sales.csv", "extra.json"}, v.Sources)
}

func TestAllTabular(t *testing.T) {
	s := session.New()
	ingestFixture(t, s)

	v := s.AllTabular()
	require.Len(t, v.Groups, 1)
	require.Equal(t, "sales.csv", v.Groups[0].Source)
	require.Equal(t, []string{"region", "units"}, v.Groups[0].Table.Columns)
	require.Equal(t, []string{"sales.csv"}, v.Sources)
}

func TestHasAnalyzableData(t *testing.T) {
	s := session.New()
	require.False(t, s.HasAnalyzableData())

	s.Ingest("memo", dataset.TextContent("prose only"))
	require.False(t, s.HasAnalyzableData())

	// an unparsed dataset still counts by kind
	s.Ingest("broken.xlsx", dataset.BytesContent([]byte("not a workbook")))
	require.True(t, s.HasAnalyzableData())
}

func TestSummary(t *testing.T) {
	s := session.New()
	ingestFixture(t, s)
	s.Ingest("more.csv", dataset.TextContent("a\n1"))

	sum := s.Summary()
	require.Equal(t, 4, sum.TotalItems)
	require.Equal(t, 2, sum.ByKind[dataset.KindCSV])
	require.Equal(t, 1, sum.ByKind[dataset.KindText])
	require.Equal(t, 1, sum.ByKind[dataset.KindJSON])
	require.True(t, sum.HasNumeric)
	require.True(t, sum.HasTabular)
	// newest first
	require.Equal(t, []string{"more.csv", "extra.json", "notes"}, sum.Recent)
}

func TestRecordAndRecentResults(t *testing.T) {
	s := session.New()
	for i := 0; i < 7; i++ {
		res, err := analysis.DetectIQR([]float64{1, 2, 3, float64(i * 100)})
		require.NoError(t, err)
		s.RecordResult("anomaly", fmt.Sprintf("run %d", i), res)
	}

	recent := s.RecentResults(3)
	require.Len(t, recent, 3)
	require.Equal(t, "run 6", recent[0].Query)
	require.Equal(t, "run 4", recent[2].Query)

	// limit <= 0 defaults to 5
	require.Len(t, s.RecentResults(0), 5)
	require.Len(t, s.RecentResults(-1), 5)

	// limit beyond the ledger returns everything
	require.Len(t, s.RecentResults(100), 7)
	require.Equal(t, 7, s.ResultCount())
}

func TestRemoveItem(t *testing.T) {
	s := session.New()
	csvID, textID, jsonID := ingestFixture(t, s)

	require.True(t, s.RemoveItem(csvID))
	require.False(t, s.RemoveItem(csvID))

	_, ok := s.Item(csvID)
	require.False(t, ok)
	require.Len(t, s.Items(), 2)
	require.Equal(t, []string{jsonID}, s.ActiveDatasets())
	_ = textID
}

func TestClear(t *testing.T) {
	s := session.New()
	ingestFixture(t, s)
	res, err := analysis.DetectIQR([]float64{1, 2, 3})
	require.NoError(t, err)
	s.RecordResult("anomaly", "before clear", res)

	var events []session.EventKind
	s.Subscribe(func(ev session.Event) { events = append(events, ev.Kind) })

	s.Clear()
	require.Empty(t, s.Items())
	require.Empty(t, s.ActiveDatasets())
	require.Empty(t, s.RecentResults(10))
	require.False(t, s.HasAnalyzableData())
	require.Equal(t, []session.EventKind{session.EventClear}, events)
}

func TestSubscribeOrderAndCancel(t *testing.T) {
	s := session.New()

	var order []string
	cancelA := s.Subscribe(func(ev session.Event) { order = append(order, "a:"+string(ev.Kind)) })
	cancelB := s.Subscribe(func(ev session.Event) { order = append(order, "b:"+string(ev.Kind)) })

	s.Ingest("one", dataset.TextContent("x"))
	require.Equal(t, []string{"a:ingest", "b:ingest"}, order)

	order = nil
	cancelA()
	s.Ingest("two", dataset.TextContent("y"))
	require.Equal(t, []string{"b:ingest"}, order)

	// cancelling twice is a no-op
	cancelA()
	cancelB()
	order = nil
	s.Ingest("three", dataset.TextContent("z"))
	require.Empty(t, order)
}

func TestListenerPanicIsolated(t *testing.T) {
	s := session.New()

	var got []session.EventKind
	s.Subscribe(func(session.Event) { panic("listener bug") })
	s.Subscribe(func(ev session.Event) { got = append(got, ev.Kind) })

	id := s.Ingest("data.csv", dataset.TextContent("a,b\n1,2"))

	// the mutation landed and the second listener still ran
	_, ok := s.Item(id)
	require.True(t, ok)
	require.Equal(t, []session.EventKind{session.EventIngest}, got)
}

func TestEventPayloads(t *testing.T) {
	s := session.New()

	var events []session.Event
	s.Subscribe(func(ev session.Event) { events = append(events, ev) })

	id := s.Ingest("data.csv", dataset.TextContent("a\n1"))
	res, err := analysis.DetectIQR([]float64{1, 2, 3})
	require.NoError(t, err)
	s.RecordResult("anomaly", "q", res)
	s.RemoveItem(id)

	require.Len(t, events, 3)
	require.Equal(t, session.EventIngest, events[0].Kind)
	require.Equal(t, id, events[0].Item.ID)
	require.Equal(t, session.EventResult, events[1].Kind)
	require.Equal(t, "anomaly", events[1].Agent)
	require.Equal(t, session.EventRemove, events[2].Kind)
	require.Equal(t, id, events[2].Item.ID)
}
