package orders

import st "example.com/shop/store"

// Archive keeps closed orders in a backing store.
//
//inject:injectable implements=st.Store
type Archive struct {
	backing st.Store
}

func (a *Archive) Save(id string) error {
	if a.backing == nil {
		return nil
	}
	return a.backing.Save(id)
}
