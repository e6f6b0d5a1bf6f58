/*
Package dsl provides a fluent builder for process diagram documents.

It is meant for seeding, tests and embedding hosts that assemble a hierarchy
in code instead of importing a snapshot.

	b := dsl.New()
	audit := b.Process("audit", "Audit").Gate(domain.GateOR)
	audit.Child("scan", "Scan").Required()
	audit.Child("verify", "Verify").Required().Inactive()
	audit.Chain()
	doc, err := b.Build()
*/
package dsl
