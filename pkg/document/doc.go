/*
Package document holds the editing session: the current Document snapshot,
the navigation stack and the selection.

A Store is single-writer and synchronous. Every successful mutation publishes
a new *domain.Document; a no-op or failed mutation leaves Document() returning
the very same pointer, so callers can detect changes by identity:

	before := store.Document()
	_ = store.ToggleActive("t1")
	changed := store.Document() != before

Node operations addressed by id (UpdateNodeData, DeleteNode, the toggles)
search the whole tree. Creation and edge operations apply to the graph of
the current scope.
*/
package document
