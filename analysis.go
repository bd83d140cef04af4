package wisp

// computeEffect is a forward data-flow analysis: a worklist walk over the
// Compiler's WordRef sequence (not yet materialized into Instructions) that
// derives the StackEffect of the whole body, treating every branch target
// as a join point.
//
// Each WordRef index is a node; RefBranch has one successor (its target),
// RefZBranch has two (its target, and the next ref -- the "not taken"
// fallthrough), and everything else falls through to the next ref. Index
// len(c.refs) is the implicit exit node reached by falling off the end,
// where the reserved return op will go. A node reached along more than one
// path merges its incoming effects with StackEffect.Merge, which fails with
// InconsistentStackEffect if the paths disagree on net depth change -- and a
// node is only re-queued when merging actually changes its accumulated
// effect, so back edges (BEGIN/REPEAT, BEGIN/UNTIL) terminate the walk
// rather than looping forever.
func (c *Compiler) computeEffect() (StackEffect, error) {
	n := len(c.refs)
	have := make([]*StackEffect, n+1)

	type item struct {
		pos    int
		effect StackEffect
	}
	queue := []item{{pos: 0, effect: identityEffect}}
	var final *StackEffect

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		pos, acc := it.pos, it.effect

		if have[pos] != nil {
			merged, err := have[pos].Merge(acc)
			if err != nil {
				return StackEffect{}, err
			}
			if merged == *have[pos] {
				continue
			}
			have[pos] = &merged
			acc = merged
		} else {
			e := acc
			have[pos] = &e
		}

		if pos >= n {
			if final == nil {
				f := acc
				final = &f
			} else {
				merged, err := final.Merge(acc)
				if err != nil {
					return StackEffect{}, err
				}
				final = &merged
			}
			continue
		}

		ref := c.refs[pos]
		combined, err := acc.Compose(ref.effect())
		if err != nil {
			return StackEffect{}, err
		}

		switch ref.Kind {
		case RefBranch:
			target, err := c.branchTarget(pos, ref.Offset)
			if err != nil {
				return StackEffect{}, err
			}
			queue = append(queue, item{pos: target, effect: combined})
		case RefZBranch:
			target, err := c.branchTarget(pos, ref.Offset)
			if err != nil {
				return StackEffect{}, err
			}
			queue = append(queue, item{pos: target, effect: combined})
			queue = append(queue, item{pos: pos + 1, effect: combined})
		default:
			queue = append(queue, item{pos: pos + 1, effect: combined})
		}
	}

	if final == nil {
		return identityEffect, nil
	}
	return *final, nil
}

// branchTarget resolves the WordRef index a branch ref at c.refs[pos]
// (offset relative to the cell after its own offset cell) actually lands
// on. Structured control branches always land exactly on a
// ref boundary because FixBranch/BranchBackTo compute the offset from that
// same cellPos bookkeeping; a raw branch written directly into source (see
// Compiler.parseRawBranch) can name any offset, so an off-boundary target is
// reported as BadBranchTarget rather than assumed well-formed.
func (c *Compiler) branchTarget(pos, offset int) (int, error) {
	targetCell := c.cellPos[pos] + 2 + offset
	if targetCell == c.cells {
		return len(c.refs), nil
	}
	idx, ok := c.posByCell[targetCell]
	if !ok {
		return 0, BadBranchTarget{Reason: "offset does not land on an instruction boundary", At: NoPos}
	}
	return idx, nil
}
