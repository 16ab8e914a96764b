package plan

// Context is the per-render-block view a processor sees: its bound
// audio inputs, audio outputs, and parameters, plus the block's sample
// count. It mirrors the teacher's own process.Context ergonomics
// (Input/Output/NumSamples/WorkBuffer), adapted from raw [][]float32 to
// the plan's bound port types so a processor never touches buffer
// pooling or allocation directly.
type Context struct {
	audioInputs  []AudioInputPort
	audioOutputs []AudioOutputPort
	parameters   []ParamSource
	numSamples   int
}

// NewContext builds a Context over the given bound ports.
func NewContext(audioInputs []AudioInputPort, audioOutputs []AudioOutputPort, parameters []ParamSource) *Context {
	return &Context{
		audioInputs:  audioInputs,
		audioOutputs: audioOutputs,
		parameters:   parameters,
	}
}

// SetNumSamples sets the current block's sample count. Called by the
// renderer immediately before Render; the ports' buffers keep their full
// length, and a processor reads NumSamples to know how many samples of
// each channel belong to this block.
func (c *Context) SetNumSamples(n int) {
	c.numSamples = n
}

// NumSamples returns the current block's sample count.
func (c *Context) NumSamples() int {
	return c.numSamples
}

// NumAudioInputs returns the number of bound audio input ports.
func (c *Context) NumAudioInputs() int { return len(c.audioInputs) }

// AudioInput returns the bound audio input port at index.
func (c *Context) AudioInput(index int) AudioInputPort { return c.audioInputs[index] }

// NumAudioOutputs returns the number of bound audio output ports.
func (c *Context) NumAudioOutputs() int { return len(c.audioOutputs) }

// AudioOutput returns the bound audio output port at index.
func (c *Context) AudioOutput(index int) AudioOutputPort { return c.audioOutputs[index] }

// NumParameters returns the number of bound parameter ports.
func (c *Context) NumParameters() int { return len(c.parameters) }

// Parameter returns the bound parameter source at index.
func (c *Context) Parameter(index int) ParamSource { return c.parameters[index] }
