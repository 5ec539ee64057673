package state

// ContractGet resolves a directory name to its stored handle.
func (m *Manager) ContractGet(name string) ([20]byte, bool, error) {
	var addr [20]byte
	ok, err := m.getRecord(registryContractKey(name), &addr)
	if err != nil {
		return [20]byte{}, false, err
	}
	return addr, ok, nil
}

// ContractPut stores the handle for a directory name. Entries are only ever
// overwritten.
func (m *Manager) ContractPut(name string, addr [20]byte) error {
	return m.putRecord(registryContractKey(name), addr)
}
