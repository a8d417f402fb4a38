package generator

import "strings"

// Resolve locates the generator and task name a qualified reference points
// to, starting from base.
//
// Reference forms:
//
//	""            base:default
//	"task"        base:task, or child "task":default when base has no such task
//	"a.b"         a.b:default
//	"a.b:task"    a.b:task
//	":task"       base:task
//
// Every path segment must name a registered child. Resolve never mutates
// the tree.
func Resolve(base *Generator, ref string) (*Generator, string, error) {
	path, task, hasTask := strings.Cut(ref, ":")
	if !hasTask {
		if path != "" && !strings.Contains(path, ".") {
			if base.HasTask(path) {
				return base, path, nil
			}
			if child, ok := base.children[path]; ok {
				return child, DefaultTask, nil
			}
			// Let the planner report the missing task.
			return base, path, nil
		}
		task = DefaultTask
	}
	if task == "" {
		task = DefaultTask
	}

	cur := base
	if path == "" {
		return cur, task, nil
	}
	for _, seg := range strings.Split(path, ".") {
		child, ok := cur.children[seg]
		if !ok {
			return nil, "", &ResolveError{Reference: ref, Segment: seg, Parent: cur.DisplayPath()}
		}
		cur = child
	}
	return cur, task, nil
}

// resolveDependency resolves a dependency reference declared on a task of
// owner. Each leading '^' moves the lookup one generator up, so a mounted
// child can depend on a task of its parent or a sibling.
func resolveDependency(owner *Generator, ref string) (*Generator, string, error) {
	base := owner
	rest := ref
	for strings.HasPrefix(rest, "^") {
		if base.parent == nil {
			return nil, "", &ResolveError{Reference: ref, Segment: "^", Parent: base.DisplayPath()}
		}
		base = base.parent
		rest = rest[1:]
	}
	return Resolve(base, rest)
}
