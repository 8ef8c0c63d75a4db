package driver

import (
	"fmt"
	"math"
	"sync"

	"github.com/notargets/goharm/eos"
	"github.com/notargets/goharm/grmhd"
	"github.com/notargets/goharm/state"
)

// Driver advances a direction-3 stacked mesh of blocks through multistage
// Runge-Kutta steps. Within one block and stage the pipeline is strictly
// sequential (flux -> CT -> divergence/source -> update -> boundary ->
// recovery); across blocks nothing is ordered except at the exchange
// barriers.
type Driver struct {
	Blocks     []*BlockState
	Ex         *state.Exchanger
	EOS        eos.GammaLaw
	Recon      grmhd.ReconType
	Integrator *Integrator
	CFL        float64
	NP         int // parallel degree inside per-block kernels
	Periodic   [3]bool
	Override   BoundaryOverride // problem boundary, may be nil

	Time  float64
	Dt    float64
	Step  int
	NFail int // recovery failures over the last step, all blocks, all stages
}

// MakeTaskList builds the dependency graph of one stage for one block,
// mirroring the five-phase pipeline with explicit ordering: ghost-receive
// start, the three concurrent directional fluxes, constrained transport,
// inter-block flux reconciliation, divergence and source, conservative
// update, ghost exchange and boundary fill, primitive recovery, and on the
// final stage the timestep estimate and refinement flagging.
func (d *Driver) MakeTaskList(bs *BlockState, stage int) *TaskList {
	if stage == 1 {
		bs.ensureStageContainers(d.Integrator.NStages)
	}
	var (
		tl   = NewTaskList()
		id   = bs.Block.ID
		base = bs.Container("base")
		sc0  = bs.Container(StageName(stage - 1))
		sc1  = bs.Container(StageName(stage))
	)
	tl.Add("start_recv", func() error { return nil })

	for dir := 1; dir <= 3; dir++ {
		dir := dir
		tl.Add(fmt.Sprintf("calc_flux%d", dir), func() error {
			grmhd.CalculateFlux(bs.Geom, d.EOS, d.Recon, sc0, dir, d.NP)
			return nil
		}, "start_recv")
	}

	tl.Add("flux_ct", func() error {
		grmhd.FluxCT(sc0, d.NP)
		return nil
	}, "calc_flux1", "calc_flux2", "calc_flux3")

	tl.Add("send_flux", func() error {
		d.Ex.SendFluxCorrection(id, sc0.Flux[3])
		return nil
	}, "flux_ct")
	// the receive averages the interface faces in place, so the local send
	// must have packed its slab first
	tl.Add("recv_flux", func() error {
		d.Ex.RecvFluxCorrection(id, sc0.Flux[3])
		return nil
	}, "send_flux")

	tl.Add("flux_div", func() error {
		grmhd.FluxDivergence(sc0, bs.DUdt, d.NP)
		return nil
	}, "recv_flux")
	tl.Add("source_term", func() error {
		grmhd.SourceTerm(bs.Geom, d.EOS, sc0, bs.DUdt, d.NP)
		return nil
	}, "flux_div")

	tl.Add("update", func() error {
		s := stage - 1
		grmhd.UpdateStage(sc1, base, sc0, bs.DUdt,
			d.Integrator.A0[s], d.Integrator.As[s], d.Integrator.Cdt[s], d.Dt, d.NP)
		return nil
	}, "source_term")

	tl.Add("send_bound", func() error {
		d.Ex.SendGhosts(id, sc1.Cons)
		return nil
	}, "update")
	tl.Add("recv_bound", func() error {
		d.Ex.RecvGhosts(id, sc1.Cons)
		return nil
	}, "send_bound")

	// Refinement-aware ghost interpolation; identity on a single-level mesh
	tl.Add("prolong_bound", func() error { return nil }, "recv_bound")

	tl.Add("generic_bc", func() error {
		d.applyGenericBoundaries(bs, sc1)
		return nil
	}, "prolong_bound")
	tl.Add("custom_bc", func() error {
		if d.Override != nil {
			d.Override(bs, sc1)
		}
		return nil
	}, "generic_bc")

	tl.Add("fill_derived", func() error {
		nFail := grmhd.RecoverPrimitives(bs.Geom, d.EOS, sc1, bs.Block.Entire(), bs.Flags, d.NP)
		bs.addFailures(d, nFail)
		return nil
	}, "custom_bc")

	if stage == d.Integrator.NStages {
		tl.Add("new_dt", func() error {
			bs.NewDt = d.estimateTimestep(bs, sc0)
			return nil
		}, "fill_derived")
		tl.Add("tag_refine", func() error {
			bs.RefineFlag = refineCheck(sc1)
			return nil
		}, "fill_derived")
	}
	return tl
}

var failMu sync.Mutex

func (bs *BlockState) addFailures(d *Driver, n int) {
	failMu.Lock()
	d.NFail += n
	failMu.Unlock()
}

// AdvanceStep runs every stage of the integrator across all blocks
// concurrently and promotes the accepted stage into the base container. A
// step either completes fully or the run aborts; there is no mid-step
// cancellation.
func (d *Driver) AdvanceStep() error {
	d.NFail = 0
	for stage := 1; stage <= d.Integrator.NStages; stage++ {
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			errs error
		)
		for _, bs := range d.Blocks {
			wg.Add(1)
			go func(bs *BlockState) {
				defer wg.Done()
				if err := d.MakeTaskList(bs, stage).Run(); err != nil {
					mu.Lock()
					if errs == nil {
						errs = fmt.Errorf("block %d stage %d: %w", bs.Block.ID, stage, err)
					}
					mu.Unlock()
				}
			}(bs)
		}
		wg.Wait()
		if errs != nil {
			return errs
		}
	}

	// The base container retains the step-start state through the whole
	// step; only here, after every stage has completed, is the accepted
	// stage promoted.
	accepted := StageName(d.Integrator.NStages)
	for _, bs := range d.Blocks {
		bs.Container("base").CopyStateFrom(bs.Container(accepted))
	}

	d.Time += d.Dt
	d.Step++

	newDt := math.Inf(1)
	for _, bs := range d.Blocks {
		if bs.NewDt < newDt {
			newDt = bs.NewDt
		}
	}
	if !math.IsInf(newDt, 1) && newDt > 0 {
		d.Dt = newDt
	}
	return nil
}

// estimateTimestep bounds the next step by the CFL condition against the
// per-face blending speeds recorded during the final stage's flux pass.
func (d *Driver) estimateTimestep(bs *BlockState, sc *state.Container) float64 {
	var (
		b      = bs.Block
		in     = b.Interior()
		maxInv float64
	)
	for k := in.Ks; k <= in.Ke; k++ {
		for j := in.Js; j <= in.Je; j++ {
			for i := in.Is; i <= in.Ie; i++ {
				c := b.Index(i, j, k)
				inv := sc.Ctop[1].Data[c]/b.Dx1 +
					sc.Ctop[2].Data[c]/b.Dx2 +
					sc.Ctop[3].Data[c]/b.Dx3
				if inv > maxInv {
					maxInv = inv
				}
			}
		}
	}
	if maxInv <= 0 {
		return math.Inf(1)
	}
	return d.CFL / maxInv
}

// refineCheck is the refinement-criterion sentinel: flags the block when the
// relative density contrast exceeds a fixed threshold. Policy for acting on
// the flag belongs to the mesh layer.
func refineCheck(sc *state.Container) bool {
	var (
		b        = sc.Block
		in       = b.Interior()
		rho      = sc.Prims.Data[state.RHO]
		min, max = math.Inf(1), math.Inf(-1)
	)
	for k := in.Ks; k <= in.Ke; k++ {
		for j := in.Js; j <= in.Je; j++ {
			for i := in.Is; i <= in.Ie; i++ {
				v := rho[b.Index(i, j, k)]
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
		}
	}
	return min > 0 && max/min > 2
}
