package fakes

type FakeMounter struct {
	MountCalled         bool
	MountPartitionPaths []string
	MountMountPoints    []string
	MountMountOptions   [][]string
	MountErr            error

	UnmountCalled                 bool
	UnmountPartitionOrMountPoints []string
	UnmountDidUnmount             bool
	UnmountErr                    error

	IsMountPointPath          string
	IsMountPointPartitionPath string
	IsMountPointResult        bool
	IsMountPointErr           error

	FindMountPointPartitionPath string
	FindMountPointMountPoints   map[string]string
	FindMountPointErr           error
}

func NewFakeMounter() *FakeMounter {
	return &FakeMounter{
		FindMountPointMountPoints: make(map[string]string),
	}
}

func (m *FakeMounter) Mount(partitionPath, mountPoint string, mountOptions ...string) error {
	m.MountCalled = true
	m.MountPartitionPaths = append(m.MountPartitionPaths, partitionPath)
	m.MountMountPoints = append(m.MountMountPoints, mountPoint)
	m.MountMountOptions = append(m.MountMountOptions, mountOptions)
	return m.MountErr
}

func (m *FakeMounter) Unmount(partitionOrMountPoint string) (bool, error) {
	m.UnmountCalled = true
	m.UnmountPartitionOrMountPoints = append(m.UnmountPartitionOrMountPoints, partitionOrMountPoint)
	return m.UnmountDidUnmount, m.UnmountErr
}

func (m *FakeMounter) IsMountPoint(path string) (string, bool, error) {
	m.IsMountPointPath = path
	return m.IsMountPointPartitionPath, m.IsMountPointResult, m.IsMountPointErr
}

func (m *FakeMounter) FindMountPoint(partitionPath string) (string, bool, error) {
	m.FindMountPointPartitionPath = partitionPath
	if m.FindMountPointErr != nil {
		return "", false, m.FindMountPointErr
	}
	mountPoint, found := m.FindMountPointMountPoints[partitionPath]
	return mountPoint, found, nil
}
