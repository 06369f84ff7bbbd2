// Package factory instantiates pluggable modules (metrics sinks,
// environmental factor providers) from configuration. A module is a type
// name plus raw settings that the registered factory decodes into its own
// typed struct.
//
//	reg := factory.NewRegistry[environment.Provider]()
//	_ = reg.Register("fixed", func(conf map[string]any) (environment.Provider, error) {
//	    var c struct{ Weather string `json:"weather"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newFixed(c.Weather), nil
//	})
//	p, err := reg.Create(factory.ModuleConfig{Type: "fixed", Conf: map[string]any{"weather": "Clear"}})
package factory
