package commandstructure

// mockCommand is a simple mock implementation of the Command interface for testing
type mockCommand struct {
	name        string
	executeFunc func() ([]byte, error)
}

func (m *mockCommand) Name() string {
	return m.name
}

func (m *mockCommand) Execute() ([]byte, error) {
	if m.executeFunc != nil {
		return m.executeFunc()
	}
	return []byte(m.name), nil
}

// newMockCommand creates a mock command whose output is its own name
func newMockCommand(name string) *mockCommand {
	return &mockCommand{
		name: name,
		executeFunc: func() ([]byte, error) {
			return []byte(name), nil
		},
	}
}

// newMockCommandWithError creates a mock command that returns an error
func newMockCommandWithError(name string, err error) *mockCommand {
	return &mockCommand{
		name: name,
		executeFunc: func() ([]byte, error) {
			return nil, err
		},
	}
}
