package generator

// Step is one entry of a plan.
type Step struct {
	Generator *Generator
	Task      *Task
}

// Label renders the step as "task" for root tasks and "path:task" otherwise.
func (s Step) Label() string {
	return label(s.Generator, s.Task.Name)
}

// Plan is the ordered, de-duplicated list of steps for one request.
type Plan struct {
	Reference string
	Steps     []Step
}

// Labels returns the label of every step, in order.
func (p *Plan) Labels() []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Label()
	}
	return out
}

func label(g *Generator, task string) string {
	if g.IsRoot() {
		return task
	}
	return g.Path() + ":" + task
}

type frame struct {
	gen  *Generator
	task *Task
	next int
}

// BuildPlan expands ref into an ordered plan. Dependencies are expanded
// depth-first in listing order and always precede their dependents. Pairs
// already present in record are skipped; every planned pair is added to it.
//
// A nil record plans as if nothing has run yet.
func BuildPlan(base *Generator, ref string, record *RunRecord) (*Plan, error) {
	if record == nil {
		record = NewRunRecord()
	}
	gen, name, err := Resolve(base, ref)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Reference: ref}
	var stack []*frame
	onStack := make(map[runKey]int)

	push := func(g *Generator, name string) error {
		if record.AlreadyRan(g, name) {
			return nil
		}
		k := runKey{gen: g, task: name}
		if at, ok := onStack[k]; ok {
			path := make([]string, 0, len(stack)-at+1)
			for _, f := range stack[at:] {
				path = append(path, label(f.gen, f.task.Name))
			}
			path = append(path, label(g, name))
			return &CycleError{Path: path}
		}
		task, err := g.GetTask(name)
		if err != nil {
			return err
		}
		onStack[k] = len(stack)
		stack = append(stack, &frame{gen: g, task: task})
		return nil
	}

	if err := push(gen, name); err != nil {
		return nil, err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next < len(top.task.Deps) {
			dep := top.task.Deps[top.next]
			top.next++
			dg, dname, err := resolveDependency(top.gen, dep)
			if err != nil {
				return nil, err
			}
			if err := push(dg, dname); err != nil {
				return nil, err
			}
			continue
		}

		stack = stack[:len(stack)-1]
		delete(onStack, runKey{gen: top.gen, task: top.task.Name})
		plan.Steps = append(plan.Steps, Step{Generator: top.gen, Task: top.task})
		record.MarkRan(top.gen, top.task.Name)
	}

	return plan, nil
}
