package fakes

import (
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type FakeMountsSearcher struct {
	SearchMountsCallCount int
	SearchMountsMounts    []boshdisk.Mount
	SearchMountsErr       error

	// SearchMountsErrs is consumed one entry per call before SearchMountsErr applies
	SearchMountsErrs []error
}

func (s *FakeMountsSearcher) SearchMounts() ([]boshdisk.Mount, error) {
	s.SearchMountsCallCount++

	if len(s.SearchMountsErrs) > 0 {
		err := s.SearchMountsErrs[0]
		s.SearchMountsErrs = s.SearchMountsErrs[1:]
		if err != nil {
			return nil, err
		}
		return s.SearchMountsMounts, nil
	}

	return s.SearchMountsMounts, s.SearchMountsErr
}
