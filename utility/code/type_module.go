package code

// Module is a Rust source file, or a directory aggregated by its mod.rs.
type Module struct {
	Path       string      `json:"path"`
	Name       string      `json:"name"`
	Submodules []*Module   `json:"submodules"`
	Functions  []*Function `json:"functions"`
}

// Count returns the number of functions in the module and its submodules.
func (r *Module) Count() int {
	count := len(r.Functions)
	for _, submodule := range r.Submodules {
		count += submodule.Count()
	}
	return count
}
