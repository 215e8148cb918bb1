package table

import (
	"testing"

	"github.com/itohio/reeflight/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	s := NewStore()

	assert.Equal(t, program.SnapFine, s.TimeSnap())
	assert.False(t, s.ValueSnap())
	assert.True(t, s.Visible())
	assert.Empty(t, s.Rows())
	assert.False(t, s.Dirty())
}

func TestStore_LoadSortsAndMarksSaved(t *testing.T) {
	s := NewStore()
	s.Load([]program.Point{
		program.NewPoint(600, 10, 20, 30, 40),
		program.NewPoint(300, 1, 2, 3, 4),
	})

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 300, rows[0].Time)
	assert.Equal(t, 600, rows[1].Time)
	assert.False(t, rows[0].ID.IsZero())
	assert.NotEqual(t, rows[0].ID, rows[1].ID)
	assert.False(t, s.Dirty())
}

func TestStore_Dirty(t *testing.T) {
	s := NewStore()
	s.Load([]program.Point{program.NewPoint(300, 40, 40, 40, 40)})
	id := s.Rows()[0].ID

	s.SetRowChannel(id, 2, 50)
	assert.True(t, s.Dirty())

	s.SetRowChannel(id, 2, 40)
	assert.False(t, s.Dirty(), "restoring the saved value clears dirty")

	s.AddDefaultRow()
	assert.True(t, s.Dirty())
	s.MarkSaved()
	assert.False(t, s.Dirty())
}

func TestStore_SetSaved(t *testing.T) {
	s := NewStore()
	s.Load([]program.Point{program.NewPoint(300, 40, 40, 40, 40)})

	var kinds []ChangeKind
	s.OnChange(func(c Change) { kinds = append(kinds, c.Kind) })

	s.SetSaved(nil)
	assert.True(t, s.Dirty(), "rows differ from an empty baseline")
	assert.Contains(t, kinds, DirtyChanged)

	s.SetSaved([]program.Point{program.NewPoint(300, 40, 40, 40, 40)})
	assert.False(t, s.Dirty())
}

func TestStore_AddDefaultRow(t *testing.T) {
	s := NewStore()
	id := s.AddDefaultRow()

	r, ok := s.Row(id)
	require.True(t, ok)
	assert.Equal(t, program.NewPoint(DefaultRowTime, 0, 0, 0, 0), r.Point)
}

func TestStore_RemoveRowIsIdempotent(t *testing.T) {
	s := NewStore()
	id := s.AddRow(program.NewPoint(60, 1, 1, 1, 1))
	var removed int
	s.OnChange(func(c Change) {
		if c.Kind == RowRemoved {
			removed++
		}
	})

	s.RemoveRow(id)
	s.RemoveRow(id)
	s.RemoveRow(program.NoRow)
	s.RemoveRow(program.NewRowID())

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, removed)
}

func TestStore_MutatorsClamp(t *testing.T) {
	s := NewStore()
	id := s.AddRow(program.NewPoint(0, 0, 0, 0, 0))

	s.SetRowTime(id, 5000)
	s.SetRowChannel(id, 1, 250)
	s.SetRowChannel(id, 2, -3)
	s.SetRowChannel(id, 9, 50)

	r, ok := s.Row(id)
	require.True(t, ok)
	assert.Equal(t, program.LastMinute, r.Time)
	assert.Equal(t, 100, r.Value(1))
	assert.Equal(t, 0, r.Value(2))
}

func TestStore_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		timeSnap  int
		valueSnap bool
		in        []program.Point
		want      []program.Point
	}{
		{
			name:     "snaps time and sorts",
			timeSnap: 15,
			in: []program.Point{
				program.NewPoint(610, 42, 0, 0, 0),
				program.NewPoint(302, 1, 0, 0, 0),
			},
			want: []program.Point{
				program.NewPoint(300, 1, 0, 0, 0),
				program.NewPoint(615, 42, 0, 0, 0),
			},
		},
		{
			name:      "snaps values when enabled",
			timeSnap:  5,
			valueSnap: true,
			in:        []program.Point{program.NewPoint(301, 42, 43, 98, 2)},
			want:      []program.Point{program.NewPoint(300, 40, 45, 100, 0)},
		},
		{
			name:     "keeps order of equal times",
			timeSnap: 5,
			in: []program.Point{
				program.NewPoint(100, 2, 0, 0, 0),
				program.NewPoint(100, 1, 0, 0, 0),
			},
			want: []program.Point{
				program.NewPoint(100, 2, 0, 0, 0),
				program.NewPoint(100, 1, 0, 0, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.SetTimeSnap(tt.timeSnap)
			s.SetValueSnap(tt.valueSnap)
			for _, p := range tt.in {
				s.AddRow(p)
			}
			s.Normalize()
			assert.Equal(t, tt.want, program.PointsOf(s.Rows()))
		})
	}
}

func TestStore_SetTimeSnapRejectsOtherSteps(t *testing.T) {
	s := NewStore()
	s.SetTimeSnap(15)
	assert.Equal(t, 15, s.TimeSnap())
	s.SetTimeSnap(7)
	assert.Equal(t, program.SnapFine, s.TimeSnap())
}

func TestStore_ListenersMayCallBack(t *testing.T) {
	s := NewStore()
	var seen []ChangeKind
	s.OnChange(func(c Change) {
		seen = append(seen, c.Kind)
		_ = s.Rows()
	})

	id := s.AddRow(program.NewPoint(10, 0, 0, 0, 0))
	s.SetRowTime(id, 20)
	s.MarkDirty()

	assert.Equal(t, []ChangeKind{RowAdded, RowTime, DirtyChanged}, seen)
}

func TestStore_Program(t *testing.T) {
	s := NewStore()
	s.AddRow(program.NewPoint(600, 10, 20, 30, 40))
	s.AddRow(program.NewPoint(75, 1, 2, 3, 4))

	p := s.Program()
	require.Len(t, p.Points, 2)
	assert.Equal(t, program.ProgramPoint{Index: 1, Hour: 1, Minute: 15, Ch1: 1, Ch2: 2, Ch3: 3, Ch4: 4}, p.Points[0])
	assert.Equal(t, 2, p.Points[1].Index)
}
