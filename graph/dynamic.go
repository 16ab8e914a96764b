package graph

// AddDynamicAudioInput appends a new audio input port to node at runtime,
// beyond its statically declared set, if its descriptor's
// DynamicAudioInputs policy still permits one. See
// graph.DynamicPorts.
func (g *Graph) AddDynamicAudioInput(ref NodeRef, descriptor AudioDescriptor) (AudioInRef, error) {
	n, err := g.GetNode(ref)
	if err != nil {
		return AudioInRef{}, err
	}
	if !n.descriptor.DynamicAudioInputs.allows(n.dynamicAudioInputsAdded) {
		return AudioInRef{}, newError(ErrDynamicPortsExhausted, n.RefString(), "AudioIn")
	}
	k := n.audioInputs.Add(AudioInPort{Descriptor: descriptor})
	n.dynamicAudioInputsAdded++
	return AudioInRef{NodeRef: ref, Key: k}, nil
}

// AddDynamicAudioOutput appends a new audio output port to node at
// runtime.
func (g *Graph) AddDynamicAudioOutput(ref NodeRef, descriptor AudioDescriptor) (AudioOutRef, error) {
	n, err := g.GetNode(ref)
	if err != nil {
		return AudioOutRef{}, err
	}
	if !n.descriptor.DynamicAudioOutputs.allows(n.dynamicAudioOutputsAdded) {
		return AudioOutRef{}, newError(ErrDynamicPortsExhausted, n.RefString(), "AudioOut")
	}
	k := n.audioOutputs.Add(AudioOutPort{Descriptor: descriptor})
	n.dynamicAudioOutputsAdded++
	return AudioOutRef{NodeRef: ref, Key: k}, nil
}

// AddDynamicParam appends a new parameter port to node at runtime.
func (g *Graph) AddDynamicParam(ref NodeRef, descriptor ParamDescriptor) (ParamRef, error) {
	n, err := g.GetNode(ref)
	if err != nil {
		return ParamRef{}, err
	}
	if !n.descriptor.DynamicParameters.allows(n.dynamicParamsAdded) {
		return ParamRef{}, newError(ErrDynamicPortsExhausted, n.RefString(), "Param")
	}
	k := n.params.Add(ParamPort{Descriptor: descriptor})
	n.dynamicParamsAdded++
	return ParamRef{NodeRef: ref, Key: k}, nil
}
