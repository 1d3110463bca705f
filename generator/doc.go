// Package generator runs the filesystem steps of a scaffolding command:
// creating directories, creating files and patching existing files.
//
// # Features
//
//   - Two-phase execution: every operation is validated before any is executed
//   - Dry runs that print a unified diff of each patch instead of writing it
//   - Interactive review of each patch (apply, skip or cancel)
//   - Step-labelled errors ("Updating src/lib.rs: ...")
//
// # Execution
//
//	ops := []generator.Operation{
//	    &generator.CreateDirOp{Path: "src/foo_bar", Label: "Creating plugin directory"},
//	    &generator.PatchFileOp{Path: "src/lib.rs", Rule: rule, Label: "Updating src/lib.rs"},
//	}
//
//	if _, err := generator.Execute(ctx, ops, generator.ExecuteOptions{}); err != nil {
//	    return err
//	}
//
// Execution is not transactional. When a step fails, the steps before it
// stay applied; each patch is safe to re-run, so the usual recovery is to fix
// the cause and invoke the command again.
package generator
