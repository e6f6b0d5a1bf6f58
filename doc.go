/*
Package dyeflow is an editor core for hierarchical process diagrams.

A document is a three-level tree (Process, Task, Outcome) in which every
Process and Task node owns a graph of its own children. Users drill into a
node to edit its child graph and navigate back through a stack of scopes.
A node is effectively active when its manual switch is on and its gate (AND,
OR or NAND) is satisfied by its required children.

# Usage

	ed, err := dyeflow.New(dyeflow.WithSeed())
	if err != nil {
		log.Fatal(err)
	}

	ed.DrillInto("top-1")
	n, _ := ed.AddNode(domain.LevelTask, domain.Position{X: 80, Y: 300}, "Label Item")
	_ = ed.ToggleRequired(n.ID)

	if err := ed.Save(ctx, "warehouse"); err != nil {
		log.Fatal(err)
	}

The Editor is a thin wrapper over document.Store that adds snapshot
persistence through a ports.SnapshotStore (memory, file, redis or postgres
adapters). HTTP and MCP surfaces live in pkg/adapters.
*/
package dyeflow
