package rbm

// MetaState is the training progress an output encoder sees.
type MetaState interface {
	Name() string
	Epoch() int
	Err() float32 // reconstruction error of the last epoch. NaN when not tracked
	Params() *Params
}
