package domain

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root string
	// AppName is written into the generated staticsite.yaml; empty keeps the template default.
	AppName string
}

// EnvironmentRef points at a per-stage env file inside a workspace.
type EnvironmentRef struct {
	Name string
	Path string
}
