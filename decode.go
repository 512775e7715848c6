package imap

// DecodeGreeting decodes a server greeting from b.
//
// On success the residual bytes past the greeting are returned. Otherwise
// the error is an *IncompleteError, a *LiteralAckError or a *DecodeError;
// for the first two the caller retries with the original bytes plus newly
// arrived bytes.
func DecodeGreeting(b []byte, opts *Options) (*Greeting, []byte, error) {
	opts = opts.orDefault()
	dec := opts.newDecoder(b)
	g := readGreeting(dec, opts)
	if err := dec.Err(); err != nil {
		return nil, nil, err
	}
	return g, dec.Rest(), nil
}

// DecodeCommand decodes a client command from b. See DecodeGreeting for the
// streaming contract.
func DecodeCommand(b []byte, opts *Options) (*Command, []byte, error) {
	opts = opts.orDefault()
	dec := opts.newDecoder(b)
	cmd := readCommand(dec, opts)
	if err := dec.Err(); err != nil {
		return nil, nil, err
	}
	return cmd, dec.Rest(), nil
}

// DecodeResponse decodes a single server response from b: a tagged or
// untagged status, untagged data or a continuation request. See
// DecodeGreeting for the streaming contract.
func DecodeResponse(b []byte, opts *Options) (Response, []byte, error) {
	opts = opts.orDefault()
	dec := opts.newDecoder(b)
	resp := readResponse(dec, opts)
	if err := dec.Err(); err != nil {
		return nil, nil, err
	}
	return resp, dec.Rest(), nil
}

// DecodeAuthenticateData decodes a client SASL exchange line from b: base64
// data or the "*" cancellation marker. See DecodeGreeting for the streaming
// contract.
func DecodeAuthenticateData(b []byte, opts *Options) (*AuthenticateData, []byte, error) {
	opts = opts.orDefault()
	dec := opts.newDecoder(b)
	data := readAuthenticateData(dec)
	if err := dec.Err(); err != nil {
		return nil, nil, err
	}
	return data, dec.Rest(), nil
}
