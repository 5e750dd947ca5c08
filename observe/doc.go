// Package observe binds registry hooks to logging and metrics backends.
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	m, err := observe.NewMetrics(prometheus.DefaultRegisterer, "app")
//	if err != nil {
//	    return err
//	}
//	reg := registry.NewWithOptions[Event, string]([]registry.Option{
//	    registry.WithName("events"),
//	    observe.Logging(logger),
//	    m.Option(),
//	})
//
// Both options read the name set with registry.WithName, so give every
// observed Registry or Lookup a name.
package observe
