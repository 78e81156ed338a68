foo2
