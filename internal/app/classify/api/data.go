package api

//Prediction keeps classification result for one feature line
type Prediction struct {
	//Label is the predicted category without the inversion suffix
	Label string
	//Inverted is true when the category marks relation arguments in reverse order
	Inverted bool
	Scores   []float32
}
