package driver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestTaskListOrdering(t *testing.T) {
	tl := NewTaskList()
	tl.Add("a", func() error { return nil })
	tl.Add("b1", func() error { return nil }, "a")
	tl.Add("b2", func() error { return nil }, "a")
	tl.Add("c", func() error { return nil }, "b1", "b2")
	assert.NoError(t, tl.Run())

	order := tl.Order()
	assert.Len(t, order, 4)
	assert.Less(t, indexOf(order, "a"), indexOf(order, "b1"))
	assert.Less(t, indexOf(order, "a"), indexOf(order, "b2"))
	assert.Less(t, indexOf(order, "b1"), indexOf(order, "c"))
	assert.Less(t, indexOf(order, "b2"), indexOf(order, "c"))
}

func TestTaskListErrorAborts(t *testing.T) {
	var ran bool
	tl := NewTaskList()
	tl.Add("boom", func() error { return fmt.Errorf("blew up") })
	tl.Add("after", func() error { ran = true; return nil }, "boom")
	err := tl.Run()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, ran)
}

func TestTaskListGuards(t *testing.T) {
	tl := NewTaskList()
	tl.Add("a", func() error { return nil })
	assert.Panics(t, func() { tl.Add("a", func() error { return nil }) })
	assert.Panics(t, func() { tl.Add("b", func() error { return nil }, "nope") })
}

func TestStagePipelineOrder(t *testing.T) {
	// one real stage on a tiny block: the recorded completion order must
	// respect the pipeline phases
	d, _ := testDriver(t, 1, true)
	bs := d.Blocks[0]
	tl := d.MakeTaskList(bs, 1)
	assert.NoError(t, tl.Run())
	order := tl.Order()

	deps := [][2]string{
		{"calc_flux1", "flux_ct"},
		{"calc_flux2", "flux_ct"},
		{"calc_flux3", "flux_ct"},
		{"flux_ct", "send_flux"},
		// the receive averages the shared faces in place; the outgoing slab
		// must be packed before the neighbor's values land
		{"send_flux", "recv_flux"},
		{"recv_flux", "flux_div"},
		{"flux_div", "source_term"},
		{"source_term", "update"},
		{"update", "send_bound"},
		{"send_bound", "recv_bound"},
		{"recv_bound", "generic_bc"},
		{"generic_bc", "custom_bc"},
		{"custom_bc", "fill_derived"},
	}
	for _, pair := range deps {
		assert.Less(t, indexOf(order, pair[0]), indexOf(order, pair[1]),
			"%s must complete before %s", pair[0], pair[1])
	}
	// the first stage of rk2 carries no timestep estimate
	assert.Equal(t, -1, indexOf(order, "new_dt"))
}
