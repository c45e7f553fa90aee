/*
Package placer places a synthesized netlist of LUTs, flip-flops and I/O pins
onto a rectangular FPGA-style grid, minimizing total half-perimeter
wirelength (HPWL).

Three placement engines share the same Netlist and HPWL cost model:

  - Chip, a discrete grid placement with an incrementally maintained cost,
    refined by RandomPlacement or SimulatedAnnealing.
  - Plan, a continuous placement built by recursive geometric partitioning
    and per-partition linear solves (see QuadraticPlacement).
  - Legalize, which snaps a Plan onto a Chip.

The sub-package internal/solve provides the symmetric linear solver used by
the quadratic placer.
*/
package placer
